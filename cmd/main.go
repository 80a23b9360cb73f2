package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/Vovarama1992/linguamate/internal/audio/mic"
	"github.com/Vovarama1992/linguamate/internal/delivery"
	"github.com/Vovarama1992/linguamate/internal/domain"
	"github.com/Vovarama1992/linguamate/internal/languages"
	"github.com/Vovarama1992/linguamate/internal/telegram"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "linguamate",
		Short:         "Voice translator: speak, translate, listen",
		SilenceUsage:  true,
	}
	root.AddCommand(serveCmd(), botCmd(), recordCmd(), historyCmd(), insightsCmd(), languagesCmd())
	return root
}

// withApp собирает зависимости и закрывает их после команды.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	return multierr.Append(fn(ctx, a), a.Close())
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				r := delivery.NewRouter(
					delivery.NewTranslateHandler(a.pipeline(nil), a.zl),
					delivery.NewHistoryHandler(a.recordings, a.dbFile(), a.cfg.RecordingsDir, a.zl),
				)

				addr := ":" + a.cfg.Port
				srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 10 * time.Second}

				go func() {
					<-ctx.Done()
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
					defer cancel()
					_ = srv.Shutdown(shutdownCtx)
				}()

				a.zl.Log(logger.LogEntry{
					Level:   "info",
					Message: "listening at " + addr,
					Service: "linguamate",
				})
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server error: %w", err)
				}
				return nil
			})
		},
	}
}

func botCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot: voice message in, translated voice out",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if a.cfg.TelegramToken == "" {
					return errors.New("TELEGRAM_BOT_TOKEN is not set")
				}
				botApp, err := telegram.NewBotApp(a.cfg.TelegramToken, a.pipeline(nil), a.recordings, a.log)
				if err != nil {
					return err
				}
				return botApp.Run(ctx)
			})
		},
	}
}

func recordCmd() *cobra.Command {
	var from, to, user string
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record one phrase from the microphone, translate and speak it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				m, err := mic.New()
				if err != nil {
					return err
				}
				a.onClose(m.Close)

				fmt.Fprintf(cmd.OutOrStdout(), "Calibrating for %s, then speak in %s...\n", a.cfg.Calibration, from)
				out := a.pipeline(m).Run(ctx, domain.PassRequest{
					SourceLanguage: from,
					TargetLanguage: to,
					UserID:         user,
				})
				printOutcome(cmd, out)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "English", "source language")
	cmd.Flags().StringVar(&to, "to", "Spanish", "target language")
	cmd.Flags().StringVar(&user, "user", "", "user id (defaults to DEFAULT_USER)")
	return cmd
}

func printOutcome(cmd *cobra.Command, out domain.Outcome) {
	w := cmd.OutOrStdout()
	if out.Transcript != "" {
		fmt.Fprintf(w, "Original (%s): %s\n", out.Source, out.Transcript)
	}
	if out.Translation != "" {
		fmt.Fprintf(w, "Translated (%s): %s\n", out.Target, out.Translation)
	}
	if out.SpeechPath != "" {
		fmt.Fprintf(w, "Audio: %s\n", out.SpeechPath)
	}
	if m := out.Metrics; m != nil {
		fmt.Fprintf(w, "Complexity: %s  Sentiment: %s  Confidence: %d%%  Language: %s\n",
			m.Complexity, m.Sentiment, m.Confidence, m.PredictedLanguage)
	}
	fmt.Fprintln(w, out.Message)
	if out.Error != "" {
		fmt.Fprintln(w, "Error:", out.Error)
	}
}

func historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent translations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				recs, err := a.recordings.GetRecentRecordings(ctx, limit)
				if err != nil {
					return err
				}
				if len(recs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No recordings yet.")
					return nil
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tWHEN\tFROM → TO\tORIGINAL\tTRANSLATION")
				for _, r := range recs {
					fmt.Fprintf(tw, "%d\t%s\t%s → %s\t%s\t%s\n",
						r.ID, humanize.Time(r.CreatedAt), r.SourceLanguage, r.TargetLanguage, r.OriginalText, r.TranslatedText)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", delivery.DefaultHistoryLimit, "number of recordings")
	return cmd
}

func insightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Show ML insights and storage stats",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				w := cmd.OutOrStdout()

				ins, err := a.recordings.GetMLInsights(ctx)
				if err != nil {
					return err
				}
				if ins.Empty() {
					fmt.Fprintln(w, "No ML data yet.")
				} else {
					fmt.Fprintf(w, "Avg confidence: %.1f%%\n", *ins.AvgConfidence)
					fmt.Fprintf(w, "Avg text length: %.1f\n", *ins.AvgTextLength)
					fmt.Fprintf(w, "Avg word count: %.1f\n", *ins.AvgWordCount)
					for _, lc := range ins.Sentiment {
						fmt.Fprintf(w, "Sentiment %s: %d\n", lc.Label, lc.Count)
					}
					for _, lc := range ins.Complexity {
						fmt.Fprintf(w, "Complexity %s: %d\n", lc.Label, lc.Count)
					}
				}

				st, err := a.recordings.StorageStats(ctx, a.dbFile(), a.cfg.RecordingsDir)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "Total recordings: %d\nDatabase size: %s\nAudio files: %d\nTTS files: %d\n",
					st.TotalRecordings, st.DatabaseSize, st.AudioFiles, st.SpeechFiles)

				if us, err := a.recordings.GetUserStats(ctx, a.cfg.DefaultUser); err == nil && us != nil {
					fmt.Fprintf(w, "Translations by %s: %s, last active %s\n",
						us.UserID, humanize.Comma(int64(us.TotalTranslations)), humanize.Time(us.LastActive))
				}
				return nil
			})
		},
	}
}

func languagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported languages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LANGUAGE\tSPEECH\tTRANSLATE\tTTS")
			for _, l := range languages.All() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", l.Label, l.Speech, l.Translate, l.TTS)
			}
			return tw.Flush()
		},
	}
}
