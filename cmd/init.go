package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rnwolfe/habit/internal/config"
	"github.com/rnwolfe/habit/internal/store"
	"github.com/rnwolfe/habit/internal/ui"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up habit for the first time",
	Long:  `Initialize habit with your preferences. Creates config and data directories.`,
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func runInit(_ *cobra.Command, _ []string) error {
	return runInitWithReader(bufio.NewReader(os.Stdin))
}

func runInitWithReader(reader *bufio.Reader) error {
	fmt.Println(ui.Title.Render(ui.IconHabit + "Welcome to habit!"))
	fmt.Println()
	ui.Inf("Two questions and you're ready.")
	fmt.Println()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	name := prompt(reader, "  What should I call you?", firstNonEmpty(cfg.User.Name, guessName()))
	cfg.User.Name = name

	target := prompt(reader, "  How many days should a new habit aim for?", strconv.Itoa(cfg.Habits.DefaultTargetDays))
	if n, err := strconv.Atoi(target); err == nil && n >= 1 {
		cfg.Habits.DefaultTargetDays = n
	} else {
		ui.Warn(fmt.Sprintf("%q is not a positive number, keeping %d", target, cfg.Habits.DefaultTargetDays))
	}
	fmt.Println()

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	db.Close()

	paths := config.GetPaths()
	if name != "" {
		ui.Ok("All set, " + name + "!")
	} else {
		ui.Ok("All set!")
	}
	fmt.Println()
	fmt.Println(ui.Muted.Render("  Created:"))
	fmt.Printf("    Config  %s\n", ui.Muted.Render(paths.ConfigFile))
	fmt.Printf("    Data    %s\n", ui.Muted.Render(paths.DBFile))
	fmt.Println()
	fmt.Printf("  Add your first habit with %s.\n", ui.Accent.Render(`habit add "Drink water" --icon droplets`))
	fmt.Println()
	return nil
}

func prompt(reader *bufio.Reader, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Printf("%s %s ", question, ui.Muted.Render(fmt.Sprintf("(%s)", defaultVal)))
	} else {
		fmt.Printf("%s ", question)
	}

	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultVal
	}
	return input
}

// guessName reads user.name from ~/.gitconfig, falling back to $USER.
func guessName() string {
	if name := gitUserName(); name != "" {
		return name
	}
	return os.Getenv("USER")
}

func gitUserName() string {
	home, _ := os.UserHomeDir()
	data, err := os.ReadFile(home + "/.gitconfig")
	if err != nil {
		return ""
	}

	inUser := false
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "[user]" {
			inUser = true
			continue
		}
		if strings.HasPrefix(line, "[") {
			inUser = false
			continue
		}
		if inUser && strings.HasPrefix(line, "name") {
			if _, v, ok := strings.Cut(line, "="); ok {
				return strings.Trim(strings.TrimSpace(v), `"`)
			}
		}
	}
	return ""
}
