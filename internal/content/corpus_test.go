package content

import (
	"strings"
	"testing"

	types "github.com/kinfolkhq/kinfolk-backend/internal/domain"
)

func TestCorpusSampleEveryCategory(t *testing.T) {
	t.Parallel()

	corpus := NewStaticCorpus()
	classes := []types.ContentClass{types.ClassQuestion, types.ClassTodo}
	for _, class := range classes {
		for _, category := range class.Categories() {
			items := corpus.Sample(category, 3)
			if len(items) != 3 {
				t.Fatalf("%s/%s: got %d items, want 3", class, category, len(items))
			}
			seen := map[string]bool{}
			for _, item := range items {
				if strings.TrimSpace(item) == "" {
					t.Fatalf("%s/%s: blank sample", class, category)
				}
				if seen[item] {
					t.Fatalf("%s/%s: duplicate sample %q within one call", class, category, item)
				}
				seen[item] = true
				if class == types.ClassQuestion && !strings.HasSuffix(item, "?") {
					t.Fatalf("%s/%s: question sample %q missing terminal question mark", class, category, item)
				}
			}
		}
	}
}

func TestCorpusSampleClampsCount(t *testing.T) {
	t.Parallel()

	corpus := NewStaticCorpus()
	items := corpus.Sample(types.CategoryGratitude, 1000)
	if len(items) == 0 {
		t.Fatalf("expected clamped sample, got none")
	}
	seen := map[string]bool{}
	for _, item := range items {
		if seen[item] {
			t.Fatalf("duplicate %q in clamped sample", item)
		}
		seen[item] = true
	}
}

func TestCorpusSampleInvalidInputs(t *testing.T) {
	t.Parallel()

	corpus := NewStaticCorpus()
	if items := corpus.Sample(types.CategoryDaily, 0); items != nil {
		t.Fatalf("count=0: got %v, want nil", items)
	}
	if items := corpus.Sample(types.ContentCategory("NOPE"), 1); items != nil {
		t.Fatalf("unknown category: got %v, want nil", items)
	}
}
