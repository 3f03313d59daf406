package catalog

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"outreachd/models"
	"outreachd/utils"
)

// Catalog resolves workflow definitions and their recipient sets. Lookups
// are uncached: an edited recipient query is visible to the very next
// resolution.
type Catalog struct {
	DB *gorm.DB
}

func NewCatalog(db *gorm.DB) *Catalog {
	return &Catalog{DB: db}
}

// Recipient is one row produced by a workflow's recipient query.
type Recipient struct {
	RecipientEmail string `gorm:"column:recipient_email" json:"recipient_email"`
	ContactName    string `gorm:"column:contact_name" json:"contact_name"`
	CandidateName  string `gorm:"column:candidate_name" json:"candidate_name"`
	LinkedInURL    string `gorm:"column:linkedin_url" json:"linkedin_url"`
}

func (c *Catalog) Resolve(workflowID uint) (*models.AutomationWorkflow, error) {
	var wf models.AutomationWorkflow
	if err := c.DB.First(&wf, workflowID).Error; err != nil {
		return nil, fmt.Errorf("resolving workflow %d: %w", workflowID, err)
	}
	return &wf, nil
}

func (c *Catalog) ResolveByKey(key string) (*models.AutomationWorkflow, error) {
	var wf models.AutomationWorkflow
	if err := c.DB.Where("workflow_key = ?", key).First(&wf).Error; err != nil {
		return nil, fmt.Errorf("resolving workflow %q: %w", key, err)
	}
	return &wf, nil
}

// ResolveRecipients executes the workflow's recipient query with bound
// variables. An empty result is a valid zero-send batch, not an error: if
// the eligibility subselect matches no candidate, the cross join yields no
// rows.
func (c *Catalog) ResolveRecipients(wf *models.AutomationWorkflow, now time.Time) ([]Recipient, error) {
	if err := utils.ValidateStruct(wf); err != nil {
		return nil, fmt.Errorf("workflow %q failed validation: %w", wf.WorkflowKey, err)
	}

	var recipients []Recipient
	err := c.DB.Raw(wf.RecipientListSQL, map[string]interface{}{
		"window_start": WindowStart(now, wf.ParametersConfig.WindowDays),
	}).Scan(&recipients).Error
	if err != nil {
		return nil, fmt.Errorf("recipient query for %q: %w", wf.WorkflowKey, err)
	}
	return recipients, nil
}

// WindowStart returns the inclusive lower bound of the contact window:
// midnight of the first covered day. windowDays=1 means today only.
func WindowStart(now time.Time, windowDays int) time.Time {
	if windowDays < 1 {
		windowDays = 1
	}
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return midnight.AddDate(0, 0, -(windowDays - 1))
}

// NormalizeProfileURL canonicalizes a possibly-bare profile handle the same
// way the recipient queries do: bare handles get an https scheme, full URLs
// pass through.
func NormalizeProfileURL(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	if strings.HasPrefix(id, "http://") || strings.HasPrefix(id, "https://") {
		return id
	}
	return "https://" + id
}
