// Package chatbot holds the scripted dialogue tree behind the public chat
// widget. The tree is static and every step is a pure lookup, so the server
// keeps no conversation state; the widget carries only the current node id.
package chatbot

import (
	"fmt"
	"strings"

	"github.com/Igsankya24/krishna-tech-solutions/internal/httperr"
)

// Action directives the widget reacts to besides rendering text.
const (
	ActionNone         = ""
	ActionOpenCalendar = "open_calendar"
	ActionShowServices = "show_services"
)

const RootNodeID = "greeting"

type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Next  string `json:"next"`
}

type Node struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []Option `json:"options,omitempty"`
	Action  string   `json:"action,omitempty"`
}

// Unknown nodes and options are business errors so handlers map them to 400
// instead of 500.
var (
	errUnknownNode   = httperr.ErrBusiness("unknown_node")
	errUnknownOption = httperr.ErrBusiness("unknown_option")
)

var nodes = map[string]Node{
	"greeting": {
		ID:   "greeting",
		Text: "Hi! I'm the Krishna Tech Solutions assistant. What can I help you with?",
		Options: []Option{
			{ID: "services", Label: "What services do you offer?", Next: "services"},
			{ID: "hours", Label: "What are your hours?", Next: "hours"},
			{ID: "location", Label: "Where are you located?", Next: "location"},
			{ID: "book", Label: "Book an appointment", Next: "book"},
			{ID: "contact", Label: "Talk to a person", Next: "contact"},
		},
	},
	"services": {
		ID:     "services",
		Text:   "Here's what we currently offer:",
		Action: ActionShowServices,
		Options: []Option{
			{ID: "book", Label: "Book an appointment", Next: "book"},
			{ID: "back", Label: "Back", Next: "greeting"},
		},
	},
	"hours": {
		ID:   "hours",
		Text: "We take appointments Monday to Saturday, 10:00 to 18:00. Sundays we're closed.",
		Options: []Option{
			{ID: "book", Label: "Book an appointment", Next: "book"},
			{ID: "back", Label: "Back", Next: "greeting"},
		},
	},
	"location": {
		ID:   "location",
		Text: "You'll find us at our office in the city centre. Walk-ins are welcome during business hours, but booked visits get priority.",
		Options: []Option{
			{ID: "book", Label: "Book an appointment", Next: "book"},
			{ID: "back", Label: "Back", Next: "greeting"},
		},
	},
	"book": {
		ID:     "book",
		Text:   "Great, let's find you a slot. Pick a date and time on the calendar.",
		Action: ActionOpenCalendar,
		Options: []Option{
			{ID: "back", Label: "Back", Next: "greeting"},
		},
	},
	"contact": {
		ID:   "contact",
		Text: "You can reach us by email or phone; the details are in the page footer. We usually reply within one business day.",
		Options: []Option{
			{ID: "back", Label: "Back", Next: "greeting"},
		},
	},
}

// Script returns every node of the tree, root first. Widgets that prefer to
// run the whole dialogue client side fetch this once.
func Script() []Node {
	out := make([]Node, 0, len(nodes))
	out = append(out, nodes[RootNodeID])
	for id, n := range nodes {
		if id == RootNodeID {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Root returns the greeting node.
func Root() Node {
	return nodes[RootNodeID]
}

// Step resolves one dialogue move: the option picked on nodeID yields the
// next node.
func Step(nodeID, optionID string) (Node, error) {
	current, ok := nodes[nodeID]
	if !ok {
		return Node{}, errUnknownNode
	}
	for _, opt := range current.Options {
		if opt.ID == optionID {
			next, ok := nodes[opt.Next]
			if !ok {
				return Node{}, fmt.Errorf("chatbot: node %q links to missing node %q", nodeID, opt.Next)
			}
			return next, nil
		}
	}
	return Node{}, errUnknownOption
}

// WithServices returns a copy of the node with the given service names
// appended to its text, one per line. Used to hydrate the services node from
// the live catalog.
func WithServices(n Node, names []string) Node {
	if len(names) == 0 {
		return n
	}
	var b strings.Builder
	b.WriteString(n.Text)
	for _, name := range names {
		b.WriteString("\n- ")
		b.WriteString(name)
	}
	n.Text = b.String()
	return n
}
