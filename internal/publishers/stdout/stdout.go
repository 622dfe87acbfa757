package stdout

import (
	"fmt"
	"io"
	"os"

	"akasha/internal/proxy"
	"akasha/internal/publishers"
)

type Publisher struct {
	out io.Writer
}

func (p *Publisher) Publish(proxies []proxy.Proxy, config map[string]interface{}) error {
	payload, err := publishers.GenerateSubscriptionPayload(proxies, config)
	if err != nil {
		return err
	}

	out := p.out
	if out == nil {
		out = os.Stdout
	}
	if quiet, _ := config["raw"].(bool); quiet {
		_, err = fmt.Fprintln(out, payload)
		return err
	}
	fmt.Fprintln(out, "========== PUBLISHED SUBSCRIPTION ==========")
	fmt.Fprintln(out, payload)
	fmt.Fprintln(out, "============================================")
	return nil
}

func init() {
	publishers.Register("stdout", func() publishers.Publisher { return &Publisher{} })
}
