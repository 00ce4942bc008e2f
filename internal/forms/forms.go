// Package forms validates entity drafts exactly as submitted by form
// controls: every field is text, and validation produces a field name to
// message map. An empty map means the draft is valid. Validation runs in
// full on every submit; a clean result replaces any earlier errors for
// the entity being edited.
package forms

import (
	"regexp"
	"strconv"
	"strings"
)

// emailPattern accepts the usual local@domain.tld shape: no whitespace,
// exactly one @, and a dot in the domain part.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Errors maps a field name to a human-readable validation message.
type Errors map[string]string

// Valid reports whether the draft passed validation.
func (e Errors) Valid() bool { return len(e) == 0 }

// ContactDraft holds the contact form fields as submitted.
type ContactDraft struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Tags    string `json:"tags"`
}

// ValidateContact checks a contact draft: name is required, and the
// email, when present, must look like an email address.
func ValidateContact(d ContactDraft) Errors {
	errs := Errors{}
	if strings.TrimSpace(d.Name) == "" {
		errs["name"] = "Name is required"
	}
	if d.Email != "" && !emailPattern.MatchString(d.Email) {
		errs["email"] = "Please enter a valid email address"
	}
	return errs
}

// DealDraft holds the deal form fields as submitted. Value, ContactID
// and Probability arrive as text and are parsed during validation.
type DealDraft struct {
	Title         string `json:"title"`
	Value         string `json:"value"`
	ContactID     string `json:"contactId"`
	Stage         string `json:"stage"`
	Probability   string `json:"probability"`
	ExpectedClose string `json:"expectedClose"`
}

// ValidateDeal checks a deal draft: title and contact are required, the
// value must parse to a number greater than zero, and the probability
// must be an integer between 0 and 100.
func ValidateDeal(d DealDraft) Errors {
	errs := Errors{}
	if strings.TrimSpace(d.Title) == "" {
		errs["title"] = "Deal title is required"
	}
	if v, err := strconv.ParseFloat(d.Value, 64); d.Value == "" || err != nil || v <= 0 {
		errs["value"] = "Deal value must be greater than 0"
	}
	if d.ContactID == "" {
		errs["contactId"] = "Please select a contact"
	}
	if p, err := strconv.Atoi(d.Probability); d.Probability == "" || err != nil || p < 0 || p > 100 {
		errs["probability"] = "Probability must be between 0 and 100"
	}
	return errs
}

// ActivityDraft holds the activity form fields as submitted.
type ActivityDraft struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	ContactID   string `json:"contactId"`
	DealID      string `json:"dealId"`
	DueDate     string `json:"dueDate"`
}

// ValidateActivity checks an activity draft: description and contact are
// required.
func ValidateActivity(d ActivityDraft) Errors {
	errs := Errors{}
	if strings.TrimSpace(d.Description) == "" {
		errs["description"] = "Description is required"
	}
	if d.ContactID == "" {
		errs["contactId"] = "Please select a contact"
	}
	return errs
}
