package bot

import (
	"runtime"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Main connects to NATS and serves bot requests on channel forever.
func Main(channel string, bot *Bot) {
	nc, err := nats.Connect(bot.cfg.NatsURL)
	if err != nil {
		log.Fatal().Err(err).Str("url", bot.cfg.NatsURL).Msg("could not connect to NATS")
	}
	nc.Subscribe(channel, func(m *nats.Msg) {
		log.Debug().Int("bytes", len(m.Data)).Msg("recv")
		m.Respond(bot.Handle(m.Data))
	})
	nc.Flush()

	if err := nc.LastError(); err != nil {
		log.Fatal().Err(err).Msg("NATS subscription failed")
	}
	log.Info().Str("channel", channel).Msg("listening")

	runtime.Goexit()
}
