package notion

// PropertyMap holds the operator-configurable property names of the mailout
// database. Defaults match a stock template; a YAML override file or env
// vars can rename any of them.
type PropertyMap struct {
	Subject        string `yaml:"subject" env:"NOTION_SUBJECT_PROP" envDefault:"Subject"`
	Status         string `yaml:"status" env:"NOTION_STATUS_PROP" envDefault:"Status"`
	Test           string `yaml:"test" env:"NOTION_TEST_PROP" envDefault:"Test"`
	SentAt         string `yaml:"sent_at" env:"NOTION_SENT_AT_PROP" envDefault:"Sent At"`
	SentCount      string `yaml:"sent_count" env:"NOTION_SENT_COUNT_PROP" envDefault:"Sent Count"`
	DeliveredCount string `yaml:"delivered_count" env:"NOTION_DELIVERED_COUNT_PROP" envDefault:"Delivered Count"`
	FailedCount    string `yaml:"failed_count" env:"NOTION_FAILED_COUNT_PROP" envDefault:"Failed Count"`
	BounceRate     string `yaml:"bounce_rate" env:"NOTION_BOUNCE_RATE_PROP" envDefault:"Bounce Rate"`
	UnsubRate      string `yaml:"unsub_rate" env:"NOTION_UNSUB_RATE_PROP" envDefault:"Unsub Rate"`
}

// Meta is the subset of mailout properties the pipeline decides on.
type Meta struct {
	Subject string
	Status  string
	IsTest  bool
	SentAt  string
}

// PageMeta extracts mailout metadata through the configured property names.
// When the subject property is absent under its configured name, the page's
// title property is used instead, so renaming the title column does not
// silently produce empty subjects.
func PageMeta(page *Page, pm PropertyMap) Meta {
	var meta Meta

	if prop, ok := page.Properties[pm.Subject]; ok {
		meta.Subject = prop.Text()
	}
	if meta.Subject == "" {
		for _, prop := range page.Properties {
			if prop.Type == "title" {
				meta.Subject = prop.Text()
				break
			}
		}
	}

	if prop, ok := page.Properties[pm.Status]; ok {
		meta.Status = prop.Text()
	}
	if prop, ok := page.Properties[pm.Test]; ok {
		meta.IsTest = prop.Bool()
	}
	if prop, ok := page.Properties[pm.SentAt]; ok {
		meta.SentAt = prop.Text()
	}

	return meta
}
