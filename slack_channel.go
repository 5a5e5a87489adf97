package main

import (
	"io"
	"log"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
)

// slackPostFn posts a message to a Slack channel. Variable so tests can
// capture output without a live connection.
var slackPostFn = func(api *slack.Client, channelID, msg string) error {
	_, _, err := api.PostMessage(channelID, slack.MsgOptionText(msg, false))
	return err
}

// SlackChannel is the operator channel over one Slack conversation. The
// channel ID is fixed at creation; messages from the operator arrive through
// the inbox. While a request is in flight they answer the resolver's
// prompts, otherwise they start a new request. One conversation, one request
// at a time.
type SlackChannel struct {
	api       *slack.Client
	channelID string
	inbox     chan string
}

func newSlackChannel(api *slack.Client, channelID string) *SlackChannel {
	return &SlackChannel{api: api, channelID: channelID, inbox: make(chan string, 8)}
}

func (c *SlackChannel) Say(msg string) {
	if err := slackPostFn(c.api, c.channelID, msg); err != nil {
		log.Printf("slack post error channel=%s: %v", c.channelID, err)
	}
}

func (c *SlackChannel) Prompt(msg string) (string, error) {
	c.Say(msg)
	text, ok := <-c.inbox
	if !ok {
		return "", io.EOF
	}
	return text, nil
}

// deliver queues an operator message without blocking the caller. Reports
// false when the inbox is full.
func (c *SlackChannel) deliver(text string) bool {
	select {
	case c.inbox <- text:
		return true
	default:
		return false
	}
}

// slackConversation pairs one conversation's channel with its own session,
// so concurrent operators never share state or see each other's replies.
type slackConversation struct {
	channel *SlackChannel
	session *Session
}

// slackDispatcher routes incoming messages to their conversation, creating
// one per channel ID on first contact. Only the events goroutine touches the
// map, so it needs no locking.
type slackDispatcher struct {
	api           *slack.Client
	newSession    func(ch OperatorChannel) *Session
	conversations map[string]*slackConversation
}

func newSlackDispatcher(api *slack.Client, newSession func(ch OperatorChannel) *Session) *slackDispatcher {
	return &slackDispatcher{
		api:           api,
		newSession:    newSession,
		conversations: make(map[string]*slackConversation),
	}
}

// dispatch hands a message to its conversation. A full inbox means the
// conversation's worker is behind; the message is dropped with a notice
// rather than stalling the event loop. Reports a newly created conversation
// so the caller can start its worker.
func (d *slackDispatcher) dispatch(channelID, text string) (conv *slackConversation, created bool) {
	conv, ok := d.conversations[channelID]
	if !ok {
		ch := newSlackChannel(d.api, channelID)
		conv = &slackConversation{channel: ch, session: d.newSession(ch)}
		d.conversations[channelID] = conv
		created = true
	}
	if !conv.channel.deliver(text) {
		conv.channel.Say("Still catching up on earlier messages, please resend that in a moment.")
	}
	return conv, created
}

// serveConversation processes one conversation's messages in order. Exit
// tokens post the running token summary instead of ending the process.
func serveConversation(conv *slackConversation) {
	for text := range conv.channel.inbox {
		if isExitToken(text) {
			conv.channel.Say(conv.session.Tokens().Summary())
			continue
		}
		if text == "" {
			continue
		}
		conv.session.HandleRequest(text)
	}
}

// RunSlackBot connects via Socket Mode and serves requests from DM
// messages. Each conversation gets its own session and worker goroutine.
func RunSlackBot(cfg Config, newSession func(ch OperatorChannel) *Session) error {
	api := slack.New(cfg.SlackBotToken, slack.OptionAppLevelToken(cfg.SlackAppToken))
	client := socketmode.New(api)
	dispatcher := newSlackDispatcher(api, newSession)

	go func() {
		for evt := range client.Events {
			switch evt.Type {
			case socketmode.EventTypeEventsAPI:
				client.Ack(*evt.Request)
				eventsAPIEvent, ok := evt.Data.(slackevents.EventsAPIEvent)
				if !ok {
					continue
				}
				if eventsAPIEvent.Type != slackevents.CallbackEvent {
					continue
				}
				ev, ok := eventsAPIEvent.InnerEvent.Data.(*slackevents.MessageEvent)
				if !ok {
					continue
				}
				// Ignore our own and other bots' messages.
				if ev.BotID != "" || ev.User == "" {
					continue
				}
				conv, created := dispatcher.dispatch(ev.Channel, ev.Text)
				if created {
					go serveConversation(conv)
				}
			}
		}
	}()

	log.Println("HR document bot connected via Socket Mode")
	return client.Run()
}
