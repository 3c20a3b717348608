package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"wave-client/internal/export"
	"wave-client/internal/models"
	"wave-client/internal/music"
	"wave-client/internal/preference"
	"wave-client/internal/service"

	"go.uber.org/zap"
)

var errUsage = errors.New("invalid arguments, see wavectl -h")

func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "id":
		return a.print(map[string]string{
			"device_id": a.ids.DeviceID(ctx),
			"author_id": a.ids.AuthorID(ctx),
		})
	case "mood":
		return a.mood(ctx, args)
	case "journal":
		return a.journal(ctx, args)
	case "pulse":
		out, err := a.client.Pulse(ctx)
		if err != nil {
			return err
		}
		return a.print(out)
	case "reflect":
		return a.reflect(ctx, args)
	case "chat":
		return a.chat(ctx, args)
	case "moderate":
		if len(args) == 0 {
			return errUsage
		}
		flagged, err := service.NewChatService(a.client, a.logger).Moderate(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		return a.print(map[string]bool{"flagged": flagged})
	case "forum":
		return a.forum(ctx, args)
	case "claim":
		out, err := a.settings().Claim(ctx)
		if err != nil {
			return err
		}
		return a.print(out)
	case "whoami":
		return a.whoami(ctx)
	case "signin":
		if len(args) != 1 {
			return errUsage
		}
		if err := a.session.Save(args[0]); err != nil {
			return err
		}
		return a.whoami(ctx)
	case "signout":
		return a.session.SignOut()
	case "music":
		return a.music(ctx, args)
	case "focus":
		return a.focus(ctx, args)
	case "export":
		return a.export(ctx, args)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) settings() service.SettingsService {
	return service.NewSettingsService(a.client, a.ids, a.session, a.logger)
}

func (a *app) whoami(ctx context.Context) error {
	acct, err := a.settings().Account(ctx)
	if err != nil {
		return err
	}
	return a.print(acct)
}

// attribution is the device id and token for direct client calls.
func (a *app) attribution(ctx context.Context) (string, string, error) {
	token, err := a.session.AccessToken(ctx)
	if err != nil {
		return "", "", err
	}
	return a.ids.DeviceID(ctx), token, nil
}

type moodView struct {
	Items         []models.MoodItem `json:"items"`
	WeeklyAverage float64           `json:"weekly_average"`
	NeedsCalm     bool              `json:"needs_calm"`
}

func (a *app) mood(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	svc := service.NewMoodService(a.client, a.ids, a.session, a.logger)
	selected := 3

	var items []models.MoodItem
	var err error
	switch args[0] {
	case "add":
		if len(args) < 2 {
			return errUsage
		}
		selected, err = strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: %q", service.ErrInvalidMood, args[1])
		}
		items, err = svc.Save(ctx, selected, strings.Join(args[2:], " "))
	case "list":
		items, err = svc.Refresh(ctx)
	case "clear":
		deviceID, token, aerr := a.attribution(ctx)
		if aerr != nil {
			return aerr
		}
		out, err := a.client.MoodDeleteAll(ctx, deviceID, token)
		if err != nil {
			return err
		}
		return a.print(out)
	default:
		return errUsage
	}
	if err != nil {
		return err
	}
	return a.print(moodView{
		Items:         items,
		WeeklyAverage: service.WeeklyAverage(items, time.Now()),
		NeedsCalm:     service.NeedsCalm(selected, items),
	})
}

type journalView struct {
	models.JournalItem
	CapsuleReady bool `json:"capsule_ready,omitempty"`
}

func (a *app) journal(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	svc := service.NewJournalService(a.client, a.ids, a.session, a.logger)

	var items []models.JournalItem
	var err error
	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("journal add", flag.ContinueOnError)
		capsule := fs.String("capsule", "", "time capsule date, YYYY-MM-DD")
		tags := fs.String("tags", "", "comma separated tags")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		items, err = svc.Add(ctx, strings.Join(fs.Args(), " "), *capsule, *tags)
	case "list":
		items, err = svc.Refresh(ctx)
	case "clear":
		deviceID, token, aerr := a.attribution(ctx)
		if aerr != nil {
			return aerr
		}
		out, err := a.client.JournalDeleteAll(ctx, deviceID, token)
		if err != nil {
			return err
		}
		return a.print(out)
	default:
		return errUsage
	}
	if err != nil {
		return err
	}

	now := time.Now()
	views := make([]journalView, len(items))
	for i, it := range items {
		views[i] = journalView{JournalItem: it, CapsuleReady: service.CapsuleDue(it, now)}
	}
	return a.print(map[string]any{"items": views})
}

func (a *app) reflect(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reflect", flag.ContinueOnError)
	mood := fs.Int("mood", 0, "mood 1-5, defaults to the latest logged")
	if err := fs.Parse(args); err != nil {
		return err
	}
	out, err := service.NewJournalService(a.client, a.ids, a.session, a.logger).
		Reflect(ctx, strings.Join(fs.Args(), " "), *mood)
	if err != nil {
		return err
	}
	return a.print(out)
}

func (a *app) chat(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("chat", flag.ContinueOnError)
	flowID := fs.String("flow", "", "therapeutic flow id")
	stepID := fs.String("step", "", "therapeutic flow step id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	text := strings.Join(fs.Args(), " ")
	svc := service.NewChatService(a.client, a.logger)

	if *flowID != "" {
		guidance, err := svc.FlowStep(ctx, models.FlowStepRequest{FlowID: *flowID, StepID: *stepID, UserResponse: text})
		if err != nil {
			return err
		}
		return a.print(map[string]string{"guidance": guidance})
	}
	reply, err := svc.Send(ctx, text)
	if err != nil {
		return err
	}
	return a.print(map[string]string{"reply": reply})
}

func (a *app) forum(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	svc := service.NewForumService(a.client, a.ids, a.logger)
	sub, rest := args[0], args[1:]

	switch sub {
	case "list":
		fs := flag.NewFlagSet("forum list", flag.ContinueOnError)
		tab := fs.String("tab", string(service.TabRecent), "recent or trending")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		posts, err := svc.Load(ctx, service.Tab(*tab))
		if err != nil {
			return err
		}
		return a.print(posts)

	case "post":
		fs := flag.NewFlagSet("forum post", flag.ContinueOnError)
		category := fs.String("category", service.Categories[0], strings.Join(service.Categories, ", "))
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if fs.NArg() < 2 {
			return errUsage
		}
		posts, err := svc.Submit(ctx, fs.Arg(0), strings.Join(fs.Args()[1:], " "), *category, service.TabRecent)
		if err != nil {
			return err
		}
		return a.print(posts)

	case "report":
		fs := flag.NewFlagSet("forum report", flag.ContinueOnError)
		reason := fs.String("reason", service.ReasonAbuse, "report reason")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return errUsage
		}
		ack, done := svc.Report(ctx, models.ID(fs.Arg(0)), *reason, service.ReportAck)
		fmt.Fprintln(os.Stderr, ack)
		if err := <-done; err != nil {
			return err
		}
		return a.print(map[string]string{"status": "reported"})
	}

	if len(rest) == 0 {
		return errUsage
	}
	id := models.ID(rest[0])
	switch sub {
	case "thread":
		thread, err := svc.Thread(ctx, id)
		if err != nil {
			return err
		}
		if thread.Post == nil {
			return fmt.Errorf("post %s not found", id)
		}
		return a.print(thread)
	case "vote":
		thread, err := svc.UpvoteThread(ctx, id)
		if err != nil {
			return err
		}
		return a.print(thread)
	case "comment":
		thread, err := svc.Comment(ctx, id, strings.Join(rest[1:], " "))
		if err != nil {
			return err
		}
		return a.print(thread)
	case "summary":
		summary, err := svc.Summary(ctx, id)
		if err != nil {
			return err
		}
		return a.print(map[string]string{"summary": summary})
	default:
		return errUsage
	}
}

func (a *app) music(ctx context.Context, args []string) error {
	prefs := preference.NewMusic(a.kv)
	sub := "play"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "status":
		saved, err := prefs.SavedPlaying(ctx)
		if err != nil {
			return err
		}
		return a.print(map[string]bool{"saved_playing": saved, "playing": prefs.InitialPlaying()})
	case "off":
		return prefs.SetPlaying(ctx, false)
	case "play":
	default:
		return errUsage
	}

	player := music.NewExecPlayer(a.cfg.Music.Command, nil, a.cfg.Music.Track, a.cfg.Music.Volume, a.logger)
	ctrl := music.NewController(ctx, player, prefs, a.logger)
	defer ctrl.Close()

	if !ctrl.Toggle(ctx) {
		return errors.New("playback failed")
	}
	a.logger.Info("Playing ambient audio, interrupt to stop", zap.String("track", a.cfg.Music.Track))
	<-ctx.Done()
	return nil
}

func (a *app) focus(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	bus, err := a.focusBus(ctx)
	if err != nil {
		return err
	}

	switch args[0] {
	case "on", "off":
		bus.Emit(args[0] == "on")
		return a.print(map[string]bool{"focus_mode": bus.On()})
	case "watch":
		unsubscribe := bus.Subscribe(func(on bool) {
			if err := a.print(map[string]bool{"focus_mode": on}); err != nil {
				a.logger.Warn("Failed to print focus mode", zap.Error(err))
			}
		})
		defer unsubscribe()
		<-ctx.Done()
		return nil
	default:
		return errUsage
	}
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	path := fs.String("o", "wave-history.xlsx", "output file, - for stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	moods, err := service.NewMoodService(a.client, a.ids, a.session, a.logger).Refresh(ctx)
	if err != nil {
		return err
	}
	journal, err := service.NewJournalService(a.client, a.ids, a.session, a.logger).Refresh(ctx)
	if err != nil {
		return err
	}

	var w io.Writer = a.out
	if *path != "-" {
		f, err := os.Create(*path)
		if err != nil {
			return fmt.Errorf("create %s: %w", *path, err)
		}
		defer f.Close()
		w = f
	}
	if err := export.WriteHistory(w, moods, journal); err != nil {
		return err
	}
	a.logger.Info("History exported",
		zap.String("path", *path),
		zap.Int("moods", len(moods)),
		zap.Int("journal", len(journal)),
	)
	return nil
}
