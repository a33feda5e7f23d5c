package failure

import "strings"

// Link is a labeled URL inside an advisory.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Advisory is a pre-built message intended for display as-is.
type Advisory struct {
	Title      string   `json:"title"`
	Paragraphs []string `json:"paragraphs,omitempty"`
	Links      []Link   `json:"links,omitempty"`
}

// NoWalletAdvisory is shown when no compatible wallet was detected. The
// explorer link lets the user interact with the contract without one.
func NoWalletAdvisory(explorerName, contractURL string) *Advisory {
	return &Advisory{
		Title: "We were not able to detect a compatible wallet.",
		Paragraphs: []string{
			"We value privacy and security a lot so we limit the wallet options to Frame or the local keystore.",
			"You can always interact with the smart-contract through " + explorerName + ".",
		},
		Links: []Link{{Label: explorerName, URL: contractURL}},
	}
}

// String renders the advisory as plain text, one element per line.
func (a *Advisory) String() string {
	if a == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(a.Title)
	for _, p := range a.Paragraphs {
		b.WriteString("\n")
		b.WriteString(p)
	}
	for _, l := range a.Links {
		b.WriteString("\n")
		b.WriteString(l.Label)
		b.WriteString(": ")
		b.WriteString(l.URL)
	}
	return b.String()
}

// Clone returns a deep copy.
func (a *Advisory) Clone() *Advisory {
	if a == nil {
		return nil
	}
	return &Advisory{
		Title:      a.Title,
		Paragraphs: append([]string(nil), a.Paragraphs...),
		Links:      append([]Link(nil), a.Links...),
	}
}
