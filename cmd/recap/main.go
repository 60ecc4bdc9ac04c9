package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fortuna/danglers/internal/boxscore"
	"github.com/fortuna/danglers/internal/logger"
	"github.com/fortuna/danglers/internal/message"
	"github.com/fortuna/danglers/internal/narrative"
	"github.com/fortuna/danglers/internal/notify"
	"github.com/fortuna/danglers/internal/schedule"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	var (
		team     = flag.String("team", getEnv("TEAM_NAME", "Dusty Danglers"), "Tracked team name")
		url      = flag.String("url", "", "Result document URL")
		file     = flag.String("file", "", "Result document file ('-' for stdin)")
		opponent = flag.String("opponent", "", "Opponent name (defaults to the one in the document)")
		date     = flag.String("date", "", "Game date shown in the header")
		browser  = flag.Bool("browser", false, "Render the page in headless Chrome before parsing")
		timeout  = flag.Duration("timeout", boxscore.DefaultFetchTimeout, "Fetch timeout")
		announce = flag.Bool("announce", false, "Post the recap to DISCORD_CHANNEL_ID")
		logLevel = flag.String("log-level", getEnv("LOG_LEVEL", "warn"), "Log level")
	)
	flag.Parse()

	log := logger.New(*logLevel)

	if (*url == "") == (*file == "") {
		fmt.Fprintln(os.Stderr, "specify exactly one of --url or --file")
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	doc, err := readDocument(ctx, *url, *file, *browser, *timeout)
	if err != nil {
		log.Error().Err(err).Msg("could not read result document")
		fmt.Println(message.FetchFailed)
		os.Exit(1)
	}

	summary := boxscore.NewParser(*team, log).Parse(doc)
	game := schedule.Game{Opponent: *opponent, Date: *date}
	if game.Opponent == "" {
		game.Opponent = summary.OpponentName
	}
	story := narrative.NewGenerator(nil).WithTeam(*team).Narrate(summary, game.Opponent)
	text := message.Recap(*team, game, summary, story)

	fmt.Println(text)

	if *announce {
		sink, err := notify.NewDiscordSink(os.Getenv("DISCORD_TOKEN"), os.Getenv("DISCORD_CHANNEL_ID"))
		if err != nil {
			log.Fatal().Err(err).Msg("cannot announce")
		}
		if err := sink.Send(ctx, notify.New(notify.KindRecap, game.Opponent, text)); err != nil {
			log.Fatal().Err(err).Msg("announce failed")
		}
		log.Info().Msg("recap posted")
	}
}

func readDocument(ctx context.Context, url, file string, browser bool, timeout time.Duration) (string, error) {
	switch {
	case file == "-":
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	case file != "":
		b, err := os.ReadFile(file)
		return string(b), err
	}

	var fetcher boxscore.Fetcher = boxscore.NewHTTPFetcher(timeout)
	if browser {
		bf := boxscore.NewBrowserFetcher(timeout, logger.New("warn"))
		defer bf.Close()
		fetcher = bf
	}
	return fetcher.Fetch(ctx, url)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
