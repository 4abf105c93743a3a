package tasks

import (
	"testing"

	"github.com/desertthunder/ytscribe/internal/models"
)

func TestExtractVideoID(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{name: "bare ID", input: "dQw4w9WgXcQ", want: "dQw4w9WgXcQ", ok: true},
		{name: "watch URL", input: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ", ok: true},
		{name: "watch URL without www", input: "https://youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ", ok: true},
		{name: "mobile watch URL", input: "https://m.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ", ok: true},
		{name: "watch URL with extra params", input: "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", want: "dQw4w9WgXcQ", ok: true},
		{name: "short URL", input: "https://youtu.be/dQw4w9WgXcQ", want: "dQw4w9WgXcQ", ok: true},
		{name: "short URL with query", input: "https://youtu.be/dQw4w9WgXcQ?si=abcdef", want: "dQw4w9WgXcQ", ok: true},
		{name: "embed URL", input: "https://www.youtube.com/embed/dQw4w9WgXcQ", want: "dQw4w9WgXcQ", ok: true},
		{name: "legacy /v/ URL", input: "https://www.youtube.com/v/dQw4w9WgXcQ?version=3", want: "dQw4w9WgXcQ", ok: true},
		{name: "surrounding whitespace", input: "  dQw4w9WgXcQ \n", want: "dQw4w9WgXcQ", ok: true},
		{name: "empty string", input: "", ok: false},
		{name: "too-short bare ID", input: "dQw4w9WgXc", ok: false},
		{name: "too-long bare ID", input: "dQw4w9WgXcQQ", ok: false},
		{name: "ID with illegal characters", input: "dQw4w9WgXc!", ok: false},
		{name: "non-YouTube host", input: "https://vimeo.com/123456", ok: false},
		{name: "watch URL without v param", input: "https://www.youtube.com/watch?list=PL123", ok: false},
		{name: "channel URL is not a video", input: "https://www.youtube.com/channel/UCabcdefghijklmnopqrstuv", ok: false},
		{name: "free text", input: "not a video", ok: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractVideoID(tt.input)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNormalizeInputs(t *testing.T) {
	t.Run("same video via different shapes collapses to one ID", func(t *testing.T) {
		ids, errs := NormalizeInputs([]string{
			"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			"https://youtu.be/dQw4w9WgXcQ",
			"dQw4w9WgXcQ",
		})

		if len(ids) != 1 || ids[0] != "dQw4w9WgXcQ" {
			t.Errorf("expected exactly [dQw4w9WgXcQ], got %v", ids)
		}
		if len(errs) != 0 {
			t.Errorf("expected no errors, got %v", errs)
		}
	})

	t.Run("preserves first-seen order", func(t *testing.T) {
		ids, _ := NormalizeInputs([]string{
			"bbbbbbbbbbb",
			"aaaaaaaaaaa",
			"https://youtu.be/bbbbbbbbbbb",
			"ccccccccccc",
		})

		want := []string{"bbbbbbbbbbb", "aaaaaaaaaaa", "ccccccccccc"}
		if len(ids) != len(want) {
			t.Fatalf("expected %v, got %v", want, ids)
		}
		for i := range want {
			if ids[i] != want[i] {
				t.Fatalf("expected %v, got %v", want, ids)
			}
		}
	})

	t.Run("bad entries become errors without aborting the rest", func(t *testing.T) {
		ids, errs := NormalizeInputs([]string{
			"garbage",
			"aaaaaaaaaaa",
			"",
			"   ",
			"https://vimeo.com/42",
		})

		if len(ids) != 1 || ids[0] != "aaaaaaaaaaa" {
			t.Errorf("expected valid ID to survive, got %v", ids)
		}
		if len(errs) != 2 {
			t.Fatalf("expected 2 errors (blanks are skipped silently), got %v", errs)
		}
		for _, resErr := range errs {
			if resErr.Kind != models.KindInvalidReference {
				t.Errorf("expected invalid-reference, got %s", resErr.Kind)
			}
		}
		if errs[0].Ref != "garbage" {
			t.Errorf("error should be keyed by the original string, got %s", errs[0].Ref)
		}
	})
}

func TestExtractChannelRef(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{name: "bare channel ID", input: "UCabcdefghijklmnopqrstuv", want: "UCabcdefghijklmnopqrstuv", ok: true},
		{name: "channel URL", input: "https://www.youtube.com/channel/UCabcdefghijklmnopqrstuv", want: "UCabcdefghijklmnopqrstuv", ok: true},
		{name: "handle URL", input: "https://www.youtube.com/@somecreator", want: "@somecreator", ok: true},
		{name: "handle URL with tab", input: "https://www.youtube.com/@somecreator/videos", want: "@somecreator", ok: true},
		{name: "bare handle", input: "@somecreator", want: "@somecreator", ok: true},
		{name: "custom URL", input: "https://www.youtube.com/c/SomeCreator", want: "c/SomeCreator", ok: true},
		{name: "legacy user URL", input: "https://www.youtube.com/user/somecreator", want: "user/somecreator", ok: true},
		{name: "short channel ID", input: "UCtooshort", ok: false},
		{name: "watch URL is not a channel", input: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractChannelRef(tt.input)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseBulkInput(t *testing.T) {
	t.Run("plain text", func(t *testing.T) {
		content := `# watch later
https://youtu.be/aaaaaaaaaaa

bbbbbbbbbbb
`
		refs := ParseBulkInput(content, "text/plain")
		if len(refs) != 2 {
			t.Fatalf("expected 2 refs, got %v", refs)
		}
	})

	t.Run("csv takes the first column", func(t *testing.T) {
		content := `"https://youtu.be/aaaaaaaaaaa", some title
bbbbbbbbbbb, another title`
		refs := ParseBulkInput(content, "text/csv")
		if len(refs) != 2 || refs[0] != "https://youtu.be/aaaaaaaaaaa" || refs[1] != "bbbbbbbbbbb" {
			t.Fatalf("unexpected refs %v", refs)
		}
	})

	t.Run("json array", func(t *testing.T) {
		refs := ParseBulkInput(`["aaaaaaaaaaa", " bbbbbbbbbbb ", ""]`, "application/json")
		if len(refs) != 2 {
			t.Fatalf("expected 2 refs, got %v", refs)
		}
	})

	t.Run("malformed json yields nothing", func(t *testing.T) {
		if refs := ParseBulkInput(`{"nope": true}`, "application/json"); len(refs) != 0 {
			t.Errorf("expected no refs, got %v", refs)
		}
	})
}
