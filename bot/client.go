package bot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/dreamtides/dreamtides/ai/agent"
)

// Client is a thin NATS request client for the bot protocol, used by the
// CLI and integration tests.
type Client struct {
	nc      *nats.Conn
	channel string
	timeout time.Duration
}

func NewClient(natsURL, channel string) (*Client, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("could not connect to NATS: %w", err)
	}
	return &Client{nc: nc, channel: channel, timeout: 2 * time.Minute}, nil
}

func (c *Client) Close() {
	c.nc.Close()
}

func (c *Client) request(req *Request) (*Response, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	msg, err := c.nc.Request(c.channel, data, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("bot request failed: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(msg.Data, &resp); err != nil {
		return nil, fmt.Errorf("could not parse bot response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("bot error: %s", resp.Error)
	}
	return &resp, nil
}

// NewBattle starts a battle against the given agent config. A zero seed
// lets the bot pick one.
func (c *Client) NewBattle(seed uint64, agentCfg agent.Config, agentPlayer string) (*Response, error) {
	return c.request(&Request{
		Command:     "newBattle",
		Seed:        seed,
		Agent:       &agentCfg,
		AgentPlayer: agentPlayer,
	})
}

// Act plays one action for the human side.
func (c *Client) Act(battleID string, action WireAction) (*Response, error) {
	return c.request(&Request{Command: "act", BattleID: battleID, Action: &action})
}

// Legal fetches the current view and legal actions.
func (c *Client) Legal(battleID string) (*Response, error) {
	return c.request(&Request{Command: "legal", BattleID: battleID})
}
