package activity

import (
	"bytes"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

// publishedLayout matches the activity stream's strict timestamp format:
// UTC with a mandatory fractional-seconds part and a literal Z suffix.
const publishedLayout = "2006-01-02T15:04:05.999999999Z"

var publishedPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{1,9}Z$`)

type ParserOptions struct {
	// SkipIncomplete drops entries with missing required fields or
	// broken timestamps instead of failing the whole parse. Default is
	// false: one broken entry aborts the call and no partial mapping is
	// returned.
	SkipIncomplete bool
}

type Parser struct {
	gofeedParser *gofeed.Parser
	opts         ParserOptions
	loc          *time.Location
}

func NewParser() *Parser {
	return NewParserWithOptions(ParserOptions{})
}

func NewParserWithOptions(opts ParserOptions) *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
		opts:         opts,
		loc:          time.Local,
	}
}

// Run parses activity stream bytes into a mapping from local calendar
// date to activities in feed document order. Every entry lands in
// exactly one date bucket; no re-sorting happens here.
func (p *Parser) Run(data []byte) (map[string][]Activity, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &MalformedFeedError{Err: err}
	}

	result := make(map[string][]Activity)

	for _, item := range feed.Items {
		act, err := p.parseEntry(item)
		if err != nil {
			if p.opts.SkipIncomplete {
				slog.Warn("Skipping incomplete feed entry", "entry", item.GUID, "error", err)
				continue
			}
			return nil, err
		}

		date := act.EntryDate()
		result[date] = append(result[date], *act)
	}

	return result, nil
}

func (p *Parser) parseEntry(item *gofeed.Item) (*Activity, error) {
	id := strings.TrimSpace(item.GUID)
	if id == "" {
		return nil, &MissingFieldError{Field: "id"}
	}

	if strings.TrimSpace(item.Title) == "" {
		return nil, &MissingFieldError{EntryID: id, Field: "title"}
	}
	title := Clean(item.Title)

	action := Classify(title)

	// The logged-duration marker is not always in the title: when
	// several fields changed at once Jira moves the worklog line into a
	// sub-element, so the whole entry text is searched.
	human, seconds, ok := ExtractLogged(p.entryText(item))

	var logged *Logged
	if ok {
		logged = &Logged{HumanTime: human, Seconds: seconds}
		if action == ActionLogged && item.Content != "" {
			logged.Description = Clean(item.Content)
		}
	}

	issueKey, issueTitle, err := extractIssueRef(item)
	if err != nil {
		return nil, &MissingFieldError{EntryID: id, Field: "issue reference"}
	}

	var commentLink string
	for _, href := range item.Links {
		if strings.Contains(href, "focusedCommentId=") {
			commentLink = href
			break
		}
	}

	published := strings.TrimSpace(item.Published)
	if published == "" {
		return nil, &MissingFieldError{EntryID: id, Field: "published"}
	}
	entryAt, err := p.parsePublished(published)
	if err != nil {
		return nil, &TimestampFormatError{EntryID: id, Value: published}
	}

	return &Activity{
		ID:          id,
		EntryAt:     entryAt,
		Action:      action,
		ActionText:  title,
		IssueKey:    issueKey,
		IssueTitle:  issueTitle,
		Logged:      logged,
		CommentLink: commentLink,
	}, nil
}

// parsePublished enforces the exact source format and converts the UTC
// value to the parser's local zone, which determines the date bucket.
func (p *Parser) parsePublished(value string) (time.Time, error) {
	if !publishedPattern.MatchString(value) {
		return time.Time{}, &TimestampFormatError{Value: value}
	}

	t, err := time.Parse(publishedLayout, value)
	if err != nil {
		return time.Time{}, err
	}

	return t.In(p.loc), nil
}

// entryText concatenates the entry's text content: title, description,
// content block and every activity-streams extension value.
func (p *Parser) entryText(item *gofeed.Item) string {
	parts := []string{item.Title, item.Description, item.Content}

	for _, byName := range item.Extensions {
		for _, list := range byName {
			for _, e := range list {
				collectExtensionText(e, &parts)
			}
		}
	}

	return strings.Join(parts, " ")
}

func collectExtensionText(e ext.Extension, parts *[]string) {
	if v := strings.TrimSpace(e.Value); v != "" {
		*parts = append(*parts, v)
	}
	for _, children := range e.Children {
		for _, child := range children {
			collectExtensionText(child, parts)
		}
	}
}

// issueRefExtractors are tried in order: the "object" reference is
// preferred, the "target" reference is the fallback. Both carry the
// issue key in <title> and the issue summary snapshot in <summary>.
var issueRefExtractors = []func(*gofeed.Item) (string, string, bool){
	func(item *gofeed.Item) (string, string, bool) { return extensionRef(item, "object") },
	func(item *gofeed.Item) (string, string, bool) { return extensionRef(item, "target") },
}

func extractIssueRef(item *gofeed.Item) (key, title string, err error) {
	for _, extract := range issueRefExtractors {
		if key, title, ok := extract(item); ok {
			return key, title, nil
		}
	}
	return "", "", &MissingFieldError{Field: "issue reference"}
}

func extensionRef(item *gofeed.Item, name string) (key, title string, ok bool) {
	activityExt, ok := item.Extensions["activity"]
	if !ok {
		return "", "", false
	}

	refs, ok := activityExt[name]
	if !ok || len(refs) == 0 {
		return "", "", false
	}

	ref := refs[0]
	key = firstChildValue(ref, "title")
	title = firstChildValue(ref, "summary")
	if key == "" || title == "" {
		return "", "", false
	}

	return key, title, true
}

func firstChildValue(e ext.Extension, name string) string {
	children, ok := e.Children[name]
	if !ok || len(children) == 0 {
		return ""
	}
	return strings.TrimSpace(children[0].Value)
}
