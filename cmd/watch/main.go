// Command watch replays a battle round by round in the terminal.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mrail/skirmish/config"
	"github.com/mrail/skirmish/game"
	"github.com/mrail/skirmish/rules"
)

type model struct {
	battle   *game.Battle
	interval time.Duration
	paused   bool
	done     bool
	outcome  rules.Outcome
}

type TickMsg time.Time

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tickCmd(m.interval)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "n":
			if m.paused {
				m.step()
			}
		case "+":
			if m.interval > 25*time.Millisecond {
				m.interval /= 2
			}
		case "-":
			if m.interval < 2*time.Second {
				m.interval *= 2
			}
		}
		return m, nil
	case TickMsg:
		if !m.paused {
			m.step()
		}
		return m, tickCmd(m.interval)
	}
	return m, nil
}

func (m *model) step() {
	if m.done {
		return
	}
	if !rules.Tick(m.battle) {
		m.done = true
		m.outcome = rules.Run(m.battle, nil)
	}
}

func (m model) View() string {
	s := fmt.Sprintf("Round %d\n\n", m.battle.Rounds)
	s += m.battle.RenderWithHealth()
	s += "\n"

	if m.done {
		s += fmt.Sprintf("Battle over: %s side wins. Score %d (%d rounds x %d health)\n",
			m.outcome.Winner, m.outcome.Score, m.outcome.Rounds, m.outcome.HealthSum)
	} else if m.paused {
		s += "Paused. n steps one round.\n"
	} else {
		s += fmt.Sprintf("Running at %s per round.\n", m.interval)
	}
	s += "Keys: space pause, n step, +/- speed, q quit.\n"
	return s
}

func main() {
	inputPath := flag.String("input", "", "Grid file to replay")
	configPath := flag.String("config", "", "Optional YAML settings file")
	elfPower := flag.Int("elf-power", 0, "Override elf attack power (0 = base power)")
	interval := flag.Duration("interval", 200*time.Millisecond, "Delay between rounds")
	flag.Parse()

	settings := config.Default()
	if *configPath != "" {
		var err error
		settings, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	// The terminal is needed for keys, so the grid must come from a file.
	if *inputPath == "" {
		log.Fatal("-input is required")
	}
	grid, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("Failed to read grid: %v", err)
	}
	battle, err := game.ParseWithOptions(string(grid), settings.ParseOptions())
	if err != nil {
		log.Fatalf("Failed to parse grid: %v", err)
	}
	if *elfPower > 0 {
		battle.SetPower(game.Elf, int32(*elfPower))
	}

	p := tea.NewProgram(model{battle: battle, interval: *interval}, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("TUI error: %v", err)
	}
}
