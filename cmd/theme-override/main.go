// Command theme-override sets or reverts the theme sender's override.
//
// It publishes a single message and exits:
//
//	theme-override party      # publish "party" until the next solar boundary
//	theme-override --revert   # return to the solar theme now
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/neiam/theme-sender/internal/infrastructure/config"
	"github.com/neiam/theme-sender/internal/infrastructure/mqtt"
)

// commandQoS is used for both overrides and reverts. Commands are never
// retained: a retained override would be replayed to the sender on every
// reconnect.
const commandQoS = 1

// sendFunc delivers one payload to topic.
type sendFunc func(cfg config.MQTTConfig, topic, payload string) error

func main() {
	if err := newRootCmd(os.Stdout, send).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout io.Writer, deliver sendFunc) *cobra.Command {
	var revert bool

	cmd := &cobra.Command{
		Use:   "theme-override [THEME]",
		Short: "Override or revert the published theme",
		Long: `Publish a theme override to the theme sender, or revert to the solar theme.

An override stays active until the next solar phase boundary (for example
sunrise or civil dusk) or until it is reverted, whichever comes first.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
	}
	cmd.SetOut(stdout)

	flags := config.BindMQTTFlags(cmd.Flags())
	cmd.Flags().BoolVarP(&revert, "revert", "r", false, "revert to the solar theme")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		switch {
		case revert && len(args) > 0:
			return usageError(cmd, "THEME and --revert are mutually exclusive")
		case !revert && len(args) == 0:
			return usageError(cmd, "either THEME or --revert is required")
		}

		cfg, err := config.Load(flags.ConfigPath(), flags)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		topics := mqtt.NewTopics(cfg.MQTT.Topics)

		if revert {
			if err := deliver(cfg.MQTT, topics.Revert(), mqtt.RevertPayload); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Revert sent on %s\n", topics.Revert())
			return nil
		}

		value := args[0]
		if err := deliver(cfg.MQTT, topics.Override(), value); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Override %q sent on %s\n", value, topics.Override())
		fmt.Fprintf(cmd.OutOrStdout(), "It lasts until the next solar boundary. Revert early with: %s --revert\n", cmd.Root().Name())
		return nil
	}

	return cmd
}

func usageError(cmd *cobra.Command, msg string) error {
	fmt.Fprintln(cmd.ErrOrStderr(), cmd.UsageString())
	return fmt.Errorf("usage: %s", msg)
}

// send connects with a unique client ID, publishes once and disconnects.
func send(cfg config.MQTTConfig, topic, payload string) error {
	clientID := "theme-override-" + clientSuffix()

	client, err := mqtt.Connect(cfg, mqtt.WithClientID(clientID))
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer client.Close()

	if err := client.PublishString(topic, payload, commandQoS, false); err != nil {
		return fmt.Errorf("publishing to %s: %w", topic, err)
	}
	return nil
}

// clientSuffix returns 8 hex characters from a random UUID.
func clientSuffix() string {
	id := uuid.New()
	return fmt.Sprintf("%x", id[:4])
}
