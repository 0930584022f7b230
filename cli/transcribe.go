// transcribe.go implements "supportdesk transcribe", a one-off AssemblyAI
// transcription of a local audio file.

package cli

import (
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"

	"supportdesk/assist"
	"supportdesk/config"
	"supportdesk/speech"
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <file>",
	Short: "Transcribe an audio file with AssemblyAI",
	Args:  cobra.ExactArgs(1),
	RunE:  runTranscribe,
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	transcriber, err := speech.NewTranscriber(cfg.AssemblyAI.APIKey, cfg.AssemblyAI.BaseURL)
	if err != nil {
		return fmt.Errorf("transcription unavailable (set ASSEMBLYAI_API_KEY): %w", err)
	}

	audio, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading audio: %w", err)
	}

	tr, err := transcriber.Transcribe(cmd.Context(), audio)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, tr.Text)
	fmt.Fprintf(out, "Confidence: %d%%\n", int(math.Round(tr.Confidence*100)))
	fmt.Fprintf(out, "Sentiment:  %s\n", assist.ClassifySentiment(tr.Text))
	fmt.Fprintf(out, "Words:      %d\n", len(tr.Words))
	return nil
}
