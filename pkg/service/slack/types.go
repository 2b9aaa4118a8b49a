package slack

// Channel represents a Slack channel
type Channel struct {
	ID   string
	Name string
}

const (
	// maxSectionText is the Slack limit for a section text object
	maxSectionText = 3000
)
