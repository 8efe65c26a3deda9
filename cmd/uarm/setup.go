package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"go.uber.org/zap"

	"github.com/gwillem/uarm/pkg/swift"
)

type SetupCommand struct{}

func (c *SetupCommand) Execute(args []string) error {
	log := newLogger()
	defer log.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Println(headerStyle.Render("uArm Setup"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━"))
	fmt.Println()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Println("Scanning for arms...")
	found, err := probe(ctx, cfg, log)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		fmt.Println("Make sure the arm is connected over USB and powered on.")
		return fmt.Errorf("no uArm Swift found")
	}

	for _, f := range found {
		fmt.Printf("  Found %s (firmware %s) on %s\n", f.Info.Name, f.Info.Firmware, f.Port)
	}
	fmt.Println()

	port := found[0].Port
	if len(found) > 1 {
		port, err = pickArm(ctx, found, log)
		if err != nil && !errors.Is(err, errCancelled) {
			return err
		}
		if port == "" {
			fmt.Println("No arm selected.")
			return nil
		}
	}

	cfg.Port = port
	if err := cfg.SaveTo(opts.Config); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Println()
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"))
	fmt.Println(successStyle.Render("Setup complete!"))
	fmt.Printf("Arm on %s saved to %s\n", port, opts.Config)
	fmt.Println()
	fmt.Println("Try it with: " + headerStyle.Render("uarm jog"))
	return nil
}

// pickArm beeps every arm in turn so the operator can tell them apart.
func pickArm(ctx context.Context, found []swift.Found, log *zap.SugaredLogger) (string, error) {
	var options []huh.Option[string]
	for _, f := range found {
		fmt.Printf("  Beeping arm on %s...\n", f.Port)
		if err := beep(ctx, f.Port, log); err != nil {
			log.Warnf("beep %s: %v", f.Port, err)
		}
		time.Sleep(time.Second)
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%s)", f.Port, f.Info.UID), f.Port))
	}
	options = append(options, huh.NewOption("None of these", ""))

	var port string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which arm do you want to use?").
				Description("Each arm beeped once, in the order listed").
				Options(options...).
				Value(&port),
		),
	)
	if err := formError(form.Run()); err != nil {
		return "", err
	}
	return port, nil
}

func beep(ctx context.Context, port string, log *zap.SugaredLogger) error {
	s, err := swift.Dial(ctx, swift.Config{Port: port, Attempts: 1}, log)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.Beep(ctx, 1000, 300*time.Millisecond)
}
