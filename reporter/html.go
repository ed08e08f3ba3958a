package reporter

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/log"

	"github.com/chrisuehlinger/beaterhtml/dom"
)

const (
	checkMark = "✓" // CHECK MARK
	ballotX   = "✗" // BALLOT X
)

// HTMLReporter renders a test run as <li> entries of a single <ul> in a document.
//
// It keeps no state besides the container handle, which is resolved on the first
// entry and cached. Finished is not guarded against repeated calls: a second call
// renders the failures and the summary again.
type HTMLReporter struct {
	doc       *dom.Document
	container *dom.Element

	containerID  string
	successColor string
	failureColor string

	log log.Logger
}

var _ Reporter = (*HTMLReporter)(nil)

// New creates a reporter that writes into a fresh, empty HTML document.
func New() *HTMLReporter {
	return NewWithDocument(dom.NewHTMLDocument(""))
}

// NewWithDocument creates a reporter that writes into doc.
func NewWithDocument(doc *dom.Document, opts ...Option) *HTMLReporter {
	r := &HTMLReporter{
		doc:          doc,
		containerID:  DefaultContainerID,
		successColor: DefaultSuccessColor,
		failureColor: DefaultFailureColor,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = log.New()
	}
	r.log = r.log.New("component", "html-reporter")
	return r
}

// Document returns the document the reporter writes into.
func (r *HTMLReporter) Document() *dom.Document {
	return r.doc
}

// ContainerID returns the id of the container list.
func (r *HTMLReporter) ContainerID() string {
	return r.containerID
}

// Container returns the container list, or nil if nothing has been logged yet
// and the document has no element with the container id.
func (r *HTMLReporter) Container() *dom.Element {
	if r.container != nil {
		return r.container
	}
	return r.doc.GetElementById(r.containerID)
}

// Entries returns the entries of the container in the order they were logged.
func (r *HTMLReporter) Entries() []*dom.Element {
	container := r.Container()
	if container == nil {
		return nil
	}
	return container.Children()
}

// Started does nothing.
func (r *HTMLReporter) Started() {}

// TestStarted does nothing.
func (r *HTMLReporter) TestStarted(Test) {}

// TestFinished logs a success entry for a passing test. Failures are left for
// Finished so that they are shown once.
func (r *HTMLReporter) TestFinished(result TestResult) {
	if !result.Passed() {
		return
	}
	r.entry(r.success(checkMark+" success: ") + result.Test.Name)
}

// Finished logs one entry per failed test, with the error on a second line,
// followed by a summary entry.
func (r *HTMLReporter) Finished(results []TestResult) {
	passed, failed := Partition(results)
	r.log.Debug("Rendering run summary", "passed", len(passed), "failed", len(failed))

	for _, result := range failed {
		r.entry(strings.Join([]string{
			r.failure(ballotX+" failure: ") + result.Test.Name,
			EscapeHTML(result.Error.Name) + ": " + EscapeHTML(result.Error.Message),
		}, "<br />"))
	}

	if len(failed) > 0 {
		r.entry(r.failure(fmt.Sprintf("%s %d of %d tests failed", ballotX, len(failed), len(results))))
		return
	}
	r.entry(r.success(fmt.Sprintf("%s %d tests passed", checkMark, len(results))))
}

func (r *HTMLReporter) success(text string) string {
	return colored(r.successColor, text)
}

func (r *HTMLReporter) failure(text string) string {
	return colored(r.failureColor, text)
}

func colored(color, text string) string {
	return `<span style="color: ` + EscapeHTML(color) + `">` + EscapeHTML(text) + `</span>`
}

// entry appends one <li> holding markup to the container.
func (r *HTMLReporter) entry(markup string) {
	if r.container == nil {
		r.container = EnsureContainer(r.doc, r.containerID)
		r.log.Debug("Resolved report container", "id", r.containerID)
	}

	li := r.doc.CreateElement("li")
	if err := li.SetInnerHTML(markup); err != nil {
		r.log.Warn("Failed to parse entry markup, falling back to text", "err", err)
		li.SetTextContent(markup)
	}
	r.container.AppendChild(li.AsNode())
	r.log.Trace("Logged entry", "text", li.TextContent())
}

// EnsureContainer returns the element with the given id, creating a <ul> with
// that id if the document has none. The list is appended to <body>, or to the
// document element when there is no body, or becomes the document element of an
// empty document. Repeated calls return the same element.
func EnsureContainer(doc *dom.Document, id string) *dom.Element {
	if el := doc.GetElementById(id); el != nil {
		return el
	}

	list := doc.CreateElement("ul")
	list.SetId(id)

	switch {
	case doc.Body() != nil:
		doc.Body().AppendChild(list.AsNode())
	case doc.DocumentElement() != nil:
		doc.DocumentElement().AppendChild(list.AsNode())
	default:
		doc.AsNode().AppendChild(list.AsNode())
	}
	return list
}
