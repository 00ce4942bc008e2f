package forms_test

import (
	"testing"

	"github.com/flowcrm/pipeline-api/internal/forms"
	"github.com/stretchr/testify/assert"
)

func TestValidateContact(t *testing.T) {
	t.Run("valid draft passes", func(t *testing.T) {
		errs := forms.ValidateContact(forms.ContactDraft{Name: "Jo", Email: ""})
		assert.True(t, errs.Valid())
		assert.Empty(t, errs)
	})

	t.Run("missing name and bad email are both reported", func(t *testing.T) {
		errs := forms.ValidateContact(forms.ContactDraft{Name: "", Email: "bad"})
		assert.Equal(t, "Name is required", errs["name"])
		assert.Equal(t, "Please enter a valid email address", errs["email"])
		assert.Len(t, errs, 2)
	})

	t.Run("whitespace-only name is missing", func(t *testing.T) {
		errs := forms.ValidateContact(forms.ContactDraft{Name: "   "})
		assert.Equal(t, "Name is required", errs["name"])
	})

	t.Run("empty email is allowed", func(t *testing.T) {
		errs := forms.ValidateContact(forms.ContactDraft{Name: "Jo"})
		assert.NotContains(t, errs, "email")
	})

	t.Run("email shapes", func(t *testing.T) {
		cases := map[string]bool{
			"a@b.co":          true,
			"first.last@x.io": true,
			"no-at-sign":      false,
			"two@@x.co":       false,
			"spaces in@x.co":  false,
			"a@nodot":         false,
		}
		for email, ok := range cases {
			errs := forms.ValidateContact(forms.ContactDraft{Name: "Jo", Email: email})
			if ok {
				assert.True(t, errs.Valid(), "expected %q to pass", email)
			} else {
				assert.Equal(t, "Please enter a valid email address", errs["email"], "expected %q to fail", email)
			}
		}
	})
}

func TestValidateDeal(t *testing.T) {
	valid := forms.DealDraft{
		Title:       "Big contract",
		Value:       "1500",
		ContactID:   "1",
		Probability: "60",
	}

	t.Run("valid draft passes", func(t *testing.T) {
		assert.True(t, forms.ValidateDeal(valid).Valid())
	})

	t.Run("title required", func(t *testing.T) {
		d := valid
		d.Title = "  "
		assert.Equal(t, "Deal title is required", forms.ValidateDeal(d)["title"])
	})

	t.Run("zero value fails with only the value error", func(t *testing.T) {
		d := valid
		d.Value = "0"
		errs := forms.ValidateDeal(d)
		assert.Equal(t, "Deal value must be greater than 0", errs["value"])
		assert.Len(t, errs, 1)
	})

	t.Run("unparsable and negative values fail the same way", func(t *testing.T) {
		for _, v := range []string{"", "abc", "-5"} {
			d := valid
			d.Value = v
			assert.Equal(t, "Deal value must be greater than 0", forms.ValidateDeal(d)["value"], "value %q", v)
		}
	})

	t.Run("contact required", func(t *testing.T) {
		d := valid
		d.ContactID = ""
		assert.Equal(t, "Please select a contact", forms.ValidateDeal(d)["contactId"])
	})

	t.Run("probability bounds", func(t *testing.T) {
		for _, p := range []string{"0", "100", "50"} {
			d := valid
			d.Probability = p
			assert.NotContains(t, forms.ValidateDeal(d), "probability", "probability %q", p)
		}
		for _, p := range []string{"", "-1", "101", "abc"} {
			d := valid
			d.Probability = p
			assert.Equal(t, "Probability must be between 0 and 100", forms.ValidateDeal(d)["probability"], "probability %q", p)
		}
	})
}

func TestValidateActivity(t *testing.T) {
	t.Run("valid draft passes", func(t *testing.T) {
		errs := forms.ValidateActivity(forms.ActivityDraft{Description: "Call back", ContactID: "2"})
		assert.True(t, errs.Valid())
	})

	t.Run("description and contact required", func(t *testing.T) {
		errs := forms.ValidateActivity(forms.ActivityDraft{})
		assert.Equal(t, "Description is required", errs["description"])
		assert.Equal(t, "Please select a contact", errs["contactId"])
	})
}
