package chatbot

import (
	"strings"
	"testing"

	"github.com/Igsankya24/krishna-tech-solutions/internal/httperr"
)

func TestScript_RootFirstAndComplete(t *testing.T) {
	script := Script()
	if len(script) != len(nodes) {
		t.Fatalf("expected %d nodes, got %d", len(nodes), len(script))
	}
	if script[0].ID != RootNodeID {
		t.Errorf("first node must be %q, got %q", RootNodeID, script[0].ID)
	}
}

func TestScript_AllLinksResolve(t *testing.T) {
	for _, n := range Script() {
		for _, opt := range n.Options {
			if _, ok := nodes[opt.Next]; !ok {
				t.Errorf("node %q option %q links to missing node %q", n.ID, opt.ID, opt.Next)
			}
		}
	}
}

func TestStep_FollowsOption(t *testing.T) {
	next, err := Step("greeting", "hours")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.ID != "hours" {
		t.Errorf("expected hours node, got %q", next.ID)
	}
}

func TestStep_BookOpensCalendar(t *testing.T) {
	next, err := Step("greeting", "book")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Action != ActionOpenCalendar {
		t.Errorf("book node must carry %q, got %q", ActionOpenCalendar, next.Action)
	}
}

func TestStep_UnknownNode(t *testing.T) {
	_, err := Step("nope", "book")
	if !httperr.IsBusiness(err, "unknown_node") {
		t.Errorf("expected unknown_node business error, got %v", err)
	}
}

func TestStep_UnknownOption(t *testing.T) {
	_, err := Step("greeting", "weather")
	if !httperr.IsBusiness(err, "unknown_option") {
		t.Errorf("expected unknown_option business error, got %v", err)
	}
}

func TestStep_EveryLeafCanReturnToRoot(t *testing.T) {
	for _, n := range Script() {
		if n.ID == RootNodeID {
			continue
		}
		found := false
		for _, opt := range n.Options {
			if opt.Next == RootNodeID {
				found = true
			}
		}
		if !found {
			t.Errorf("node %q has no way back to the greeting", n.ID)
		}
	}
}

func TestWithServices(t *testing.T) {
	n := Node{Text: "Here's what we currently offer:"}

	got := WithServices(n, []string{"Web Development", "IT Support"})
	if !strings.Contains(got.Text, "- Web Development") || !strings.Contains(got.Text, "- IT Support") {
		t.Errorf("service names missing from text: %q", got.Text)
	}

	unchanged := WithServices(n, nil)
	if unchanged.Text != n.Text {
		t.Errorf("empty list must leave text unchanged, got %q", unchanged.Text)
	}
}
