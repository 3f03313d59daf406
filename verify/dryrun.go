package verify

import (
	"strings"
	"time"

	"github.com/badoux/checkmail"

	"outreachd/catalog"
	"outreachd/models"
)

// DryRunReport summarizes a no-send validation pass over a workflow's
// current recipient set.
type DryRunReport struct {
	WorkflowKey  string   `json:"workflow_key"`
	Total        int      `json:"total"`
	Valid        []string `json:"valid"`
	Invalid      []string `json:"invalid"`
	DeliveryRate int      `json:"delivery_rate"` // percent of fetched addresses that passed
}

// Validator checks recipient addresses without sending anything.
type Validator struct {
	// SkipMX disables DNS lookups; syntax checks still run. Useful offline
	// and in tests.
	SkipMX bool
}

// ValidateEmails partitions addresses into deliverable and not. Order of
// the input is preserved within each partition.
func (v *Validator) ValidateEmails(emails []string) (valid, invalid []string) {
	for _, email := range emails {
		if err := checkmail.ValidateFormat(email); err != nil {
			invalid = append(invalid, email)
			continue
		}
		if !v.SkipMX {
			at := strings.LastIndex(email, "@")
			if err := checkmail.ValidateHost(email[at+1:]); err != nil {
				invalid = append(invalid, email)
				continue
			}
		}
		valid = append(valid, email)
	}
	return valid, invalid
}

// DryRun resolves a workflow's recipients and validates every address.
// No emails are sent; an empty recipient set is a clean zero-row report.
func DryRun(cat *catalog.Catalog, wf *models.AutomationWorkflow, v *Validator) (*DryRunReport, error) {
	recipients, err := cat.ResolveRecipients(wf, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	var emails []string
	for _, r := range recipients {
		email := strings.ToLower(strings.TrimSpace(r.RecipientEmail))
		if email != "" {
			emails = append(emails, email)
		}
	}

	valid, invalid := v.ValidateEmails(emails)

	report := &DryRunReport{
		WorkflowKey: wf.WorkflowKey,
		Total:       len(emails),
		Valid:       valid,
		Invalid:     invalid,
	}
	if report.Total > 0 {
		report.DeliveryRate = len(valid) * 100 / report.Total
	}
	return report, nil
}
