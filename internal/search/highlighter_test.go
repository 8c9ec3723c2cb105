package search

import (
	"testing"

	"github.com/hyperjump/shirabe/internal/models"
)

func TestBuildHighlights(t *testing.T) {
	item := &models.IndexedItem{
		Title:   "Mail Archive",
		Content: "Archive old mail. Mail stays searchable after archive.",
	}

	t.Run("case insensitive with original casing preserved", func(t *testing.T) {
		hs := BuildHighlights(item, []string{"mail"})
		if len(hs) != 2 {
			t.Fatalf("got %d fields, want title and content", len(hs))
		}
		title := hs[0]
		if title.Field != "title" || len(title.Spans) != 1 {
			t.Fatalf("title highlight = %+v", title)
		}
		if title.Spans[0].Text != "Mail" || title.Spans[0].Start != 0 || title.Spans[0].End != 4 {
			t.Errorf("title span = %+v, want Mail at [0,4)", title.Spans[0])
		}
		content := hs[1]
		if content.Field != "content" || len(content.Spans) != 2 {
			t.Fatalf("content highlight = %+v, want two mail spans", content)
		}
	})

	t.Run("every occurrence located and sorted", func(t *testing.T) {
		hs := BuildHighlights(item, []string{"archive"})
		var content *models.Highlight
		for i := range hs {
			if hs[i].Field == "content" {
				content = &hs[i]
			}
		}
		if content == nil || len(content.Spans) != 2 {
			t.Fatalf("content spans = %+v, want 2", hs)
		}
		for i := 1; i < len(content.Spans); i++ {
			if content.Spans[i-1].Start >= content.Spans[i].Start {
				t.Fatal("spans not sorted by start offset")
			}
		}
		for _, s := range content.Spans {
			if item.Content[s.Start:s.End] != s.Text {
				t.Errorf("span %+v does not slice back to its text", s)
			}
		}
	})

	t.Run("no occurrences omits the field", func(t *testing.T) {
		hs := BuildHighlights(item, []string{"calendar"})
		if len(hs) != 0 {
			t.Errorf("got %+v, want no highlights", hs)
		}
	})
}

func TestBuildHighlights_CJKByteOffsets(t *testing.T) {
	item := &models.IndexedItem{Title: "项目邮件自动归档"}
	hs := BuildHighlights(item, []string{"邮件"})
	if len(hs) != 1 || len(hs[0].Spans) != 1 {
		t.Fatalf("highlights = %+v", hs)
	}
	span := hs[0].Spans[0]
	if span.Text != "邮件" {
		t.Errorf("span text = %q, want 邮件", span.Text)
	}
	// Offsets are bytes: two three-byte characters precede the match.
	if span.Start != 6 || span.End != 12 {
		t.Errorf("span offsets = [%d,%d), want [6,12)", span.Start, span.End)
	}
	if item.Title[span.Start:span.End] != span.Text {
		t.Error("byte offsets do not slice back to the matched text")
	}
}

func TestBuildHighlights_MultipleTerms(t *testing.T) {
	item := &models.IndexedItem{Title: "dark theme settings"}
	hs := BuildHighlights(item, []string{"dark", "settings"})
	if len(hs) != 1 {
		t.Fatalf("got %d fields, want 1", len(hs))
	}
	spans := hs[0].Spans
	if len(spans) != 2 {
		t.Fatalf("got %d spans, want 2", len(spans))
	}
	if spans[0].Text != "dark" || spans[1].Text != "settings" {
		t.Errorf("spans = %+v", spans)
	}
}
