package cmd

import (
	"os"
	"os/signal"
	"strings"

	"github.com/apex/log"
	clihander "github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"

	termplay "github.com/blacktop/go-termplay"
)

var (
	verbose bool
	width   string
	height  string
	stretch bool
	fps     int
)

func init() {
	log.SetHandler(clihander.Default)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "Enable verbose logging")
	rootCmd.Flags().StringVarP(&width, "width", "w", "", "Target width in cells or a percentage (e.g. 80 or 50%)")
	rootCmd.Flags().StringVarP(&height, "height", "H", "", "Target height in rows or a percentage")
	rootCmd.Flags().BoolVarP(&stretch, "stretch", "s", false, "Ignore the image aspect ratio")
	rootCmd.Flags().IntVarP(&fps, "fps", "f", termplay.DefaultFrameRate, "Maximum animation frame rate")
}

var rootCmd = &cobra.Command{
	Use:   "termplay <image|gif>",
	Short: "Display images and play GIFs in your terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}

		w, err := termplay.ParseDimension(width)
		if err != nil {
			return err
		}
		h, err := termplay.ParseDimension(height)
		if err != nil {
			return err
		}
		opts := termplay.Options{Width: w, Height: h, Stretch: stretch}

		caps := termplay.Detect()
		log.Debugf("terminal: %s", caps.Kind)

		if strings.HasSuffix(strings.ToLower(args[0]), ".gif") {
			return play(args[0], opts)
		}

		if _, err := termplay.RenderFile(args[0], opts); err != nil {
			return err
		}
		os.Stdout.WriteString("\n")
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func play(path string, opts termplay.Options) error {
	playback, err := termplay.PlayFile(path, termplay.AnimateOptions{
		Options:      opts,
		MaxFrameRate: fps,
	})
	if err != nil {
		return err
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	<-interrupt
	playback.Stop()
	<-playback.Done()
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}
