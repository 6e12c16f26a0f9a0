package findings

import "fmt"

// Unknown fills commit metadata the engine did not record.
const Unknown = "unknown"

// Finding is one detected secret normalized from the engine report.
// Fingerprint is computed once at extraction and never changes.
type Finding struct {
	RuleID      string `json:"rule_id"`
	FilePath    string `json:"file_path"`
	LineNumber  int    `json:"line_number"`
	CommitSHA   string `json:"commit_sha"`
	Author      string `json:"author"`
	Email       string `json:"email"`
	Date        string `json:"date"`
	Fingerprint string `json:"fingerprint"`
}

// New builds a Finding and its fingerprint.
func New(ruleID, filePath string, line int, commitSHA, author, email, date string) Finding {
	return Finding{
		RuleID:      ruleID,
		FilePath:    filePath,
		LineNumber:  line,
		CommitSHA:   commitSHA,
		Author:      author,
		Email:       email,
		Date:        date,
		Fingerprint: GenerateFingerprint(commitSHA, filePath, ruleID, line),
	}
}

// GenerateFingerprint returns the .gitleaksignore key {commit}:{file}:{rule}:{line}.
func GenerateFingerprint(commitSHA, filePath, ruleID string, line int) string {
	return fmt.Sprintf("%s:%s:%s:%d", commitSHA, filePath, ruleID, line)
}

// ShortSHA is the first seven characters of the commit.
func (f Finding) ShortSHA() string {
	if len(f.CommitSHA) >= 7 {
		return f.CommitSHA[:7]
	}
	return f.CommitSHA
}

func (f Finding) CommitURL(repoURL string) string {
	return fmt.Sprintf("%s/commit/%s", repoURL, f.CommitSHA)
}

// SecretURL links to the exact line of the secret.
func (f Finding) SecretURL(repoURL string) string {
	return fmt.Sprintf("%s/blob/%s/%s#L%d", repoURL, f.CommitSHA, f.FilePath, f.LineNumber)
}

func (f Finding) FileURL(repoURL string) string {
	return fmt.Sprintf("%s/blob/%s/%s", repoURL, f.CommitSHA, f.FilePath)
}
