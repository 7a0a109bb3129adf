package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDispatcher_MatchesGlobFilter(t *testing.T) {
	dir := t.TempDir()
	d, err := NewDispatcher()
	if err != nil {
		t.Fatal(err)
	}
	defer d.Stop()

	events := make(chan Event, 8)
	err = d.AddWatch(&Watch{
		Root:     dir,
		Filter:   Filter{Kind: FilterGlob, Glob: "*.go"},
		Callback: func(e Event) { events <- e },
	})
	if err != nil {
		t.Fatal(err)
	}
	go d.Run()

	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-events:
		if filepath.Base(ev.Path) != "main.go" {
			t.Errorf("got event for %q, want main.go", ev.Path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for main.go event")
	}
}

func TestDispatcher_SkipsIgnoredDirs(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "target"), 0755); err != nil {
		t.Fatal(err)
	}

	d, err := NewDispatcher()
	if err != nil {
		t.Fatal(err)
	}
	defer d.Stop()

	if err := d.AddWatch(&Watch{Root: dir, Callback: func(Event) {}}); err != nil {
		t.Fatal(err)
	}

	if d.dirs[filepath.Join(dir, "target")] {
		t.Error("target/ should not be watched")
	}
}

func TestFilter_Predicate(t *testing.T) {
	f := Filter{Kind: FilterPredicate, Predicate: func(p string) bool {
		return filepath.Ext(p) == ".rs"
	}}
	if !f.match("/a/b.rs") {
		t.Error("expected match for .rs file")
	}
	if f.match("/a/b.go") {
		t.Error("expected no match for .go file")
	}
}

func TestFilter_None(t *testing.T) {
	f := Filter{Kind: FilterNone}
	if !f.match("/anything") {
		t.Error("FilterNone should match everything")
	}
}
