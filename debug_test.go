package larch

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"
)

// captureStderr runs fn with os.Stderr redirected and returns what it wrote.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	oldStderr := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stderr = w
	defer func() { os.Stderr = oldStderr }()

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.String()
	}()

	fn()
	_ = w.Close()
	return <-done
}

// ---- Debug mode tests ------------------------------------------------------

func expectDisposedPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic for disposed node, got none")
		}
		msg := fmt.Sprint(r)
		if !strings.Contains(msg, "disposed") {
			t.Errorf("panic message should mention 'disposed', got: %s", msg)
		}
	}()
	fn()
}

func TestDebugMode_DisposedNodePanics(t *testing.T) {
	s := NewScene(nil)
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	parent := NewContainer("parent")
	_ = s.Root().AddChild(parent)

	child := NewQuad("child", 10, 10, ColorWhite)
	child.Dispose()

	expectDisposedPanic(t, func() { _ = parent.AddChild(child) })
}

func TestDebugMode_DisposedParentPanics(t *testing.T) {
	s := NewScene(nil)
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	parent := NewContainer("parent")
	parent.Dispose()

	expectDisposedPanic(t, func() { _ = parent.AddChild(NewContainer("child")) })
	expectDisposedPanic(t, func() { _, _ = parent.RemoveChildAt(0) })
}

func TestReleaseMode_DisposedNodeNoPanic(t *testing.T) {
	s := NewScene(nil)
	s.SetDebugMode(false)

	child := NewContainer("child")
	child.Dispose()

	// Outside debug mode the add goes through unchecked.
	if err := s.Root().AddChild(child); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
}

func TestDebugMode_TreeDepthWarning(t *testing.T) {
	s := NewScene(nil)
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	output := captureStderr(t, func() {
		// Build a chain deeper than debugMaxTreeDepth (32).
		current := s.Root()
		for i := 0; i < debugMaxTreeDepth+5; i++ {
			child := NewContainer(fmt.Sprintf("depth_%d", i))
			_ = current.AddChild(child)
			current = child
		}
	})

	if !strings.Contains(output, "warning: tree depth") {
		t.Errorf("expected tree depth warning in stderr, got: %q", output)
	}
}

func TestDebugMode_ChildCountWarning(t *testing.T) {
	s := NewScene(nil)
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	output := captureStderr(t, func() {
		parent := NewContainer("many_children")
		_ = s.Root().AddChild(parent)
		for i := 0; i < debugMaxChildCount+1; i++ {
			_ = parent.AddChild(NewContainer(fmt.Sprintf("c_%d", i)))
		}
	})

	if !strings.Contains(output, "warning: node") || !strings.Contains(output, "children") {
		t.Errorf("expected child count warning in stderr, got: %q", output)
	}
}

func TestDebugMode_RenderLog(t *testing.T) {
	s := NewScene(nil)
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)
	_ = s.Root().AddChild(NewQuad("q", 1, 1, ColorWhite))

	output := captureStderr(t, func() {
		if _, err := s.RenderFrame(); err != nil {
			t.Error(err)
		}
	})

	if !strings.Contains(output, "[larch] render:") || !strings.Contains(output, "draw calls: 1") {
		t.Errorf("expected render stats in stderr, got: %q", output)
	}
}

func TestDebugLogSilentWhenOff(t *testing.T) {
	s := NewScene(nil)
	output := captureStderr(t, func() {
		s.debugLog(debugStats{drawCallCount: 3})
	})
	if output != "" {
		t.Errorf("expected no output, got %q", output)
	}
}
