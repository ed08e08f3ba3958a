package reporter

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/beaterhtml/dom"
)

func pass(name string) TestResult {
	return TestResult{Test: Test{Name: name}}
}

func fail(name, errName, message string) TestResult {
	return TestResult{Test: Test{Name: name}, Error: &ErrorDescriptor{Name: errName, Message: message}}
}

// run drives r through a complete run the way a test runner would.
func run(r Reporter, results []TestResult) {
	r.Started()
	for _, res := range results {
		r.TestStarted(res.Test)
		r.TestFinished(res)
	}
	r.Finished(results)
}

func entryHTML(r *HTMLReporter) []string {
	var out []string
	for _, li := range r.Entries() {
		out = append(out, li.InnerHTML())
	}
	return out
}

func TestHTMLReporter_MixedRun(t *testing.T) {
	r := New()
	results := []TestResult{
		pass("t1"),
		fail("t2", "AssertionError", "boom"),
	}

	r.Started()
	r.TestStarted(results[0].Test)
	r.TestFinished(results[0])
	require.Equal(t, []string{
		`<span style="color: #00ff00">✓ success: </span>t1`,
	}, entryHTML(r), "success entry is logged when the test finishes")

	r.TestStarted(results[1].Test)
	r.TestFinished(results[1])
	require.Len(t, r.Entries(), 1, "failures are not logged per test")

	r.Finished(results)
	assert.Equal(t, []string{
		`<span style="color: #00ff00">✓ success: </span>t1`,
		`<span style="color: #ff0000">✗ failure: </span>t2<br>AssertionError: boom`,
		`<span style="color: #ff0000">✗ 1 of 2 tests failed</span>`,
	}, entryHTML(r))

	entries := r.Entries()
	assert.Equal(t, "✗ failure: t2AssertionError: boom", entries[1].TextContent())
	assert.Equal(t, "✗ 1 of 2 tests failed", entries[2].TextContent())
}

func TestHTMLReporter_Summary(t *testing.T) {
	tests := []struct {
		name    string
		results []TestResult
		want    string
	}{
		{
			name:    "empty run",
			results: nil,
			want:    `<span style="color: #00ff00">✓ 0 tests passed</span>`,
		},
		{
			name:    "all passed",
			results: []TestResult{pass("a"), pass("b"), pass("c")},
			want:    `<span style="color: #00ff00">✓ 3 tests passed</span>`,
		},
		{
			name:    "all failed",
			results: []TestResult{fail("a", "E", "1"), fail("b", "E", "2")},
			want:    `<span style="color: #ff0000">✗ 2 of 2 tests failed</span>`,
		},
		{
			name:    "one failure of many",
			results: []TestResult{pass("a"), pass("b"), fail("c", "E", "x"), pass("d")},
			want:    `<span style="color: #ff0000">✗ 1 of 4 tests failed</span>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			r.Finished(tt.results)

			entries := entryHTML(r)
			_, failed := Partition(tt.results)
			require.Len(t, entries, len(failed)+1)
			assert.Equal(t, tt.want, entries[len(entries)-1])
		})
	}
}

func TestHTMLReporter_FailureOrder(t *testing.T) {
	r := New()
	r.Finished([]TestResult{
		fail("A", "E1", "first"),
		pass("ok"),
		fail("B", "E2", "second"),
		fail("C", "E3", "third"),
	})

	entries := r.Entries()
	require.Len(t, entries, 4)
	for i, want := range []struct{ name, detail string }{
		{"A", "E1: first"},
		{"B", "E2: second"},
		{"C", "E3: third"},
	} {
		children := entries[i].AsNode().ChildNodes()
		require.Len(t, children, 4, "entry %d", i)
		assert.Equal(t, want.name, children[1].NodeValue())
		assert.Equal(t, "BR", children[2].NodeName())
		assert.Equal(t, want.detail, children[3].NodeValue())
	}
}

func TestHTMLReporter_EscapesErrorText(t *testing.T) {
	r := New()
	r.Finished([]TestResult{
		fail("t", `<Err & "co">`, `<script>alert("x")</script>`),
	})

	entries := r.Entries()
	require.Len(t, entries, 2)

	detail := entries[0].AsNode().LastChild()
	require.Equal(t, dom.TextNode, detail.NodeType(), "error text must not become markup")
	assert.Equal(t, `<Err & "co">: <script>alert("x")</script>`, detail.NodeValue())
	assert.Empty(t, r.Document().GetElementsByTagName("script"))
}

func TestHTMLReporter_TestNameIsMarkup(t *testing.T) {
	r := New()
	r.TestFinished(pass("<em>fast</em> path"))

	entries := r.Entries()
	require.Len(t, entries, 1)
	assert.Len(t, r.Document().GetElementsByTagName("em"), 1)
	assert.Equal(t, "✓ success: fast path", entries[0].TextContent())
}

func TestHTMLReporter_NoOpCallbacks(t *testing.T) {
	doc := dom.NewHTMLDocument("")
	var mutations int
	doc.Observe(dom.MutationObserverFunc(func(*dom.Node, []*dom.Node, []*dom.Node) {
		mutations++
	}))

	r := NewWithDocument(doc)
	r.Started()
	r.TestStarted(Test{Name: "a"})
	r.TestStarted(Test{})
	r.TestFinished(fail("b", "E", "m"))

	assert.Zero(t, mutations)
	assert.Nil(t, r.Container(), "no container before the first entry")
}

func TestHTMLReporter_FinishedTwice(t *testing.T) {
	r := New()
	results := []TestResult{pass("a"), fail("b", "E", "m")}
	run(r, results)
	require.Len(t, r.Entries(), 3)

	// No one-shot guard: a repeated Finished renders failures and summary again.
	r.Finished(results)
	entries := entryHTML(r)
	require.Len(t, entries, 5)
	assert.Equal(t, entries[1], entries[3])
	assert.Equal(t, entries[2], entries[4])
}

func TestHTMLReporter_SingleContainer(t *testing.T) {
	r := New()
	run(r, []TestResult{pass("a"), pass("b")})
	run(r, []TestResult{fail("c", "E", "m")})

	lists := r.Document().GetElementsByTagName("ul")
	require.Len(t, lists, 1)
	assert.Equal(t, DefaultContainerID, lists[0].Id())
	assert.Same(t, lists[0], r.Container())
	assert.Len(t, r.Entries(), 6)
}

func TestHTMLReporter_ReusesExistingContainer(t *testing.T) {
	doc, err := dom.ParseHTML(`<html><body><h1>Results</h1><ul id="beater"></ul></body></html>`)
	require.NoError(t, err)
	existing := doc.GetElementById("beater")

	r := NewWithDocument(doc)
	r.TestFinished(pass("a"))

	assert.Same(t, existing, r.Container())
	assert.Len(t, doc.GetElementsByTagName("ul"), 1)
}

func TestHTMLReporter_Options(t *testing.T) {
	r := NewWithDocument(dom.NewHTMLDocument(""),
		WithContainerID("results"),
		WithColors("green", "red"),
	)
	run(r, []TestResult{pass("a"), fail("b", "E", "m")})

	require.NotNil(t, r.Document().GetElementById("results"))
	assert.Nil(t, r.Document().GetElementById(DefaultContainerID))
	assert.Equal(t, []string{
		`<span style="color: green">✓ success: </span>a`,
		`<span style="color: red">✗ failure: </span>b<br>E: m`,
		`<span style="color: red">✗ 1 of 2 tests failed</span>`,
	}, entryHTML(r))
}

func TestEnsureContainer(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		doc := dom.NewHTMLDocument("")
		first := EnsureContainer(doc, "beater")
		for i := 0; i < 5; i++ {
			assert.Same(t, first, EnsureContainer(doc, "beater"))
		}
		assert.Len(t, doc.GetElementsByTagName("ul"), 1)
		assert.Same(t, doc.Body().AsNode(), first.AsNode().ParentNode())
	})

	t.Run("no body", func(t *testing.T) {
		doc := dom.NewDocument()
		root := doc.CreateElement("html")
		doc.AsNode().AppendChild(root.AsNode())

		list := EnsureContainer(doc, "beater")
		assert.Same(t, root.AsNode(), list.AsNode().ParentNode())
	})

	t.Run("empty document", func(t *testing.T) {
		doc := dom.NewDocument()
		list := EnsureContainer(doc, "beater")
		assert.Same(t, list, doc.DocumentElement())
	})
}

func TestHTMLReporter_Golden(t *testing.T) {
	r := New()
	run(r, []TestResult{
		pass("t1"),
		fail("t2", "AssertionError", `expected <b> & "c"`),
		pass("t3"),
	})

	g := goldie.New(t)
	g.Assert(t, "mixed_run", []byte(r.Document().OuterHTML()))
}

func TestErrorDescriptor(t *testing.T) {
	var err error = &ErrorDescriptor{Name: "AssertionError", Message: "boom"}
	assert.EqualError(t, err, "AssertionError: boom")
	assert.True(t, pass("ok").Passed())
	assert.False(t, fail("bad", "E", "m").Passed())
}
