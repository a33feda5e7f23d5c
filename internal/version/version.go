// Package version checks GitHub releases for a newer mintdapp build.
package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Defaults for the release checker.
const (
	DefaultBaseURL = "https://api.github.com"
	DefaultOwner   = "capnganj"
	DefaultRepo    = "PoisonToadsDapp"
	DefaultTimeout = 10 * time.Second

	maxBodySize = 64 * 1024
)

// Errors returned by this package.
var (
	ErrReleaseLookup = errors.New("release lookup failed")
	ErrInvalidRepo   = errors.New("invalid owner/repo")
)

var repoNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// Release is the subset of a GitHub release the checker uses.
type Release struct {
	TagName     string    `json:"tag_name"`
	Name        string    `json:"name"`
	HTMLURL     string    `json:"html_url"`
	Prerelease  bool      `json:"prerelease"`
	PublishedAt time.Time `json:"published_at"`
}

// Info compares the running build with the latest release.
type Info struct {
	Current         string `json:"current"`
	Latest          string `json:"latest"`
	URL             string `json:"url,omitempty"`
	UpdateAvailable bool   `json:"update_available"`
}

// Checker looks up the latest release of one repository.
type Checker struct {
	baseURL    string
	owner      string
	repo       string
	httpClient *http.Client
	userAgent  string
}

// Option configures a Checker.
type Option func(*Checker)

// WithBaseURL points the checker at another API host.
func WithBaseURL(url string) Option {
	return func(c *Checker) { c.baseURL = strings.TrimSuffix(url, "/") }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Checker) { c.httpClient = client }
}

// WithRepository selects the repository to check.
func WithRepository(owner, repo string) Option {
	return func(c *Checker) {
		c.owner = owner
		c.repo = repo
	}
}

// NewChecker creates a checker for the mintdapp repository.
func NewChecker(current string, opts ...Option) *Checker {
	c := &Checker{
		baseURL:    DefaultBaseURL,
		owner:      DefaultOwner,
		repo:       DefaultRepo,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  fmt.Sprintf("mintdapp/%s (%s/%s)", displayVersion(current), runtime.GOOS, runtime.GOARCH),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Latest fetches the latest published release.
func (c *Checker) Latest(ctx context.Context) (*Release, error) {
	if !repoNamePattern.MatchString(c.owner) || !repoNamePattern.MatchString(c.repo) {
		return nil, fmt.Errorf("%w: %q/%q", ErrInvalidRepo, c.owner, c.repo)
	}

	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", c.baseURL, c.owner, c.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req) //nolint:gosec // URL is built from the configured API host
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReleaseLookup, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body := io.LimitReader(resp.Body, maxBodySize)
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(body, 1024))
		return nil, fmt.Errorf("%w: status %d: %s", ErrReleaseLookup, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var release Release
	if err := json.NewDecoder(body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decoding release: %w", err)
	}
	return &release, nil
}

// Check compares current with the latest release.
func (c *Checker) Check(ctx context.Context, current string) (Info, error) {
	release, err := c.Latest(ctx)
	if err != nil {
		return Info{}, err
	}
	return Info{
		Current:         displayVersion(current),
		Latest:          release.TagName,
		URL:             release.HTMLURL,
		UpdateAvailable: IsNewer(current, release.TagName),
	}, nil
}

// Compare returns 1, 0 or -1 as v1 is newer than, equal to or older than v2.
// Development builds ("dev", empty, or a commit hash) are older than any
// release.
func Compare(v1, v2 string) int {
	dev1, dev2 := isDevBuild(v1), isDevBuild(v2)
	switch {
	case dev1 && dev2:
		return 0
	case dev1:
		return -1
	case dev2:
		return 1
	}

	p1, p2 := parts(v1), parts(v2)
	for i := range 3 {
		if p1[i] != p2[i] {
			if p1[i] > p2[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// IsNewer reports whether latest is newer than current.
func IsNewer(current, latest string) bool {
	return Compare(latest, current) > 0
}

// Normalize strips whitespace, "v" prefixes and pre-release or build suffixes.
func Normalize(v string) string {
	v = strings.TrimLeft(strings.TrimSpace(v), "v")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	return v
}

func displayVersion(v string) string {
	if v == "" {
		return "dev"
	}
	return v
}

// parts returns major, minor and patch; missing parts are zero.
func parts(v string) [3]int {
	var out [3]int
	for i, p := range strings.SplitN(Normalize(v), ".", 3) {
		n, err := strconv.Atoi(p)
		if err != nil {
			break
		}
		out[i] = n
	}
	return out
}

var commitHashPattern = regexp.MustCompile(`^[0-9a-fA-F]{7,40}$`)

func isDevBuild(v string) bool {
	v = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(v), "v"), "-dirty")
	if v == "" || v == "dev" {
		return true
	}
	// A commit hash needs at least one letter to be told apart from a number.
	return commitHashPattern.MatchString(v) && strings.ContainsAny(strings.ToLower(v), "abcdef")
}
