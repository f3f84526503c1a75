// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/slackline/api"
	"github.com/bureau-foundation/slackline/dispatch"
	"github.com/bureau-foundation/slackline/events"
	"github.com/bureau-foundation/slackline/model"
	"github.com/bureau-foundation/slackline/rtm"
)

// palette holds the styles of one output line.
type palette struct {
	time  lipgloss.Style
	name  lipgloss.Style
	error lipgloss.Style
	body  lipgloss.Style
}

func colorPalette() palette {
	return palette{
		time:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		name:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		error: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		body:  lipgloss.NewStyle(),
	}
}

func plainPalette() palette {
	return palette{
		time:  lipgloss.NewStyle(),
		name:  lipgloss.NewStyle(),
		error: lipgloss.NewStyle(),
		body:  lipgloss.NewStyle(),
	}
}

// printer writes one line per event.
type printer struct {
	output  io.Writer
	palette palette
	now     func() time.Time

	// raw includes the undecoded rtm.event frames.
	raw bool

	mu sync.Mutex
}

func (p *printer) handle(event events.Event) {
	if event.Name == rtm.EventFrame && !p.raw {
		return
	}
	nameStyle := p.palette.name
	if _, failed := event.Payload.(error); failed {
		nameStyle = p.palette.error
	}
	line := fmt.Sprintf("%s %s %s",
		p.palette.time.Render(p.now().Format("15:04:05")),
		nameStyle.Render(event.Name),
		p.palette.body.Render(describe(event.Name, event.Payload)),
	)

	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.output, strings.TrimRight(line, " "))
}

// describe summarizes an event payload on one line.
func describe(name string, payload any) string {
	switch value := payload.(type) {
	case nil:
		return ""
	case *dispatch.MessageEvent:
		return describeMessage(value)
	case *model.User:
		return userName(value)
	case dispatch.PresenceEvent:
		return userName(value.User) + " is " + value.Presence
	case *model.DND:
		if !value.Enabled {
			return userName(value.User()) + " dnd off"
		}
		return fmt.Sprintf("%s dnd %s-%s", userName(value.User()),
			value.NextStart.UTC().Format(time.RFC3339), value.NextEnd.UTC().Format(time.RFC3339))
	case *model.Conversation:
		return conversationName(value)
	case dispatch.ConversationEvent:
		if value.User == nil {
			return conversationName(value.Conversation)
		}
		return conversationName(value.Conversation) + " by " + userName(value.User)
	case dispatch.RenameEvent:
		return fmt.Sprintf("%s: %s -> %s", value.Conversation.ID(), value.OldName, value.Name)
	case dispatch.TeamEvent:
		current := value.Team.Domain()
		if name == dispatch.EventTeamRenamed {
			current = value.Team.Name()
		}
		return fmt.Sprintf("%s: %s -> %s", value.Team.ID(), value.Previous, current)
	case rtm.StateChange:
		return fmt.Sprintf("%s -> %s", value.From, value.To)
	case rtm.MigratingEvent:
		if !value.Retrying {
			return fmt.Sprintf("attempt %d, giving up: %v", value.Attempt, value.Err)
		}
		return fmt.Sprintf("attempt %d, retrying in %s", value.Attempt, value.Delay)
	case rtm.CloseEvent:
		return fmt.Sprintf("generation %d: %v", value.Generation, value.Err)
	case *api.ConnectResponse:
		return fmt.Sprintf("as %s on %s", value.Self.Name, value.Team.Name)
	case rtm.Frame:
		return string(value.Raw)
	case error:
		return value.Error()
	default:
		return fmt.Sprint(value)
	}
}

func describeMessage(event *dispatch.MessageEvent) string {
	where := conversationName(event.Conversation)
	if event.Message == nil {
		return fmt.Sprintf("%s deleted %s", where, event.DeletedTS)
	}
	who := event.Message.BotID
	if event.User != nil {
		who = userName(event.User)
	}
	text := strings.ReplaceAll(event.Message.Text, "\n", " ")
	if who == "" {
		return where + " " + text
	}
	return fmt.Sprintf("%s <%s> %s", where, who, text)
}

func userName(user *model.User) string {
	if user == nil {
		return "?"
	}
	if name := user.DisplayName(); name != "" {
		return name
	}
	if name := user.Name(); name != "" {
		return name
	}
	return user.ID()
}

func conversationName(conversation *model.Conversation) string {
	if conversation == nil {
		return "?"
	}
	switch {
	case conversation.IsIM():
		return "@" + conversation.User()
	case conversation.Name() != "":
		return "#" + conversation.Name()
	default:
		return conversation.ID()
	}
}
