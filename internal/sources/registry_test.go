package sources

import (
	"testing"
)

func TestRegistry(t *testing.T) {
	t.Run("register and get", func(t *testing.T) {
		r := NewRegistry()
		r.Register(NewOpenLibrary(nil, ""))

		src, err := r.Get("openlibrary")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if src.DisplayName() != "Open Library" {
			t.Errorf("DisplayName() = %q", src.DisplayName())
		}
		if _, err := r.Get("missing"); err == nil {
			t.Error("expected error for unknown source")
		}
	})

	t.Run("ordered skips unknown names", func(t *testing.T) {
		r := NewDefaultRegistry(nil)
		got := r.Ordered([]string{"googlebooks", "nope", "litres"})
		if len(got) != 2 {
			t.Fatalf("got %d sources, want 2", len(got))
		}
		if got[0].Name() != "googlebooks" || got[1].Name() != "litres" {
			t.Errorf("order = %s, %s", got[0].Name(), got[1].Name())
		}
	})

	t.Run("reload honours enabled flags", func(t *testing.T) {
		r := NewDefaultRegistry(nil)
		cfg := DefaultRegistryConfig()
		cfg.Labirint.Enabled = false
		cfg.GoogleBooks.Enabled = false
		r.Reload(cfg, nil)

		names := r.List()
		want := []string{"litres", "openlibrary"}
		if len(names) != len(want) || names[0] != want[0] || names[1] != want[1] {
			t.Errorf("List() = %v, want %v", names, want)
		}
		if r.Has("labirint") {
			t.Error("labirint should be disabled")
		}
	})

	t.Run("unregister", func(t *testing.T) {
		r := NewDefaultRegistry(nil)
		r.Unregister("litres")
		if r.Has("litres") {
			t.Error("litres still registered")
		}
	})
}

func TestFound_DegradesToNotFound(t *testing.T) {
	if res := Found(nil, nil); res.Status != StatusNotFound {
		t.Errorf("Found(nil, nil).Status = %v", res.Status)
	}
	if res := Found(flatEntries(nil), nil); res.Status != StatusNotFound {
		t.Errorf("Found(empty).Status = %v", res.Status)
	}
	if res := Found(flatEntries([]string{"A"}), nil); !res.HasChapters() {
		t.Errorf("Found(one chapter) has no chapters")
	}
}
