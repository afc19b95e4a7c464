package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gimenezdev/rentalops/internal/app"
	"github.com/gimenezdev/rentalops/internal/model"
	"github.com/gimenezdev/rentalops/internal/store"
)

func main() {
	if os.Getenv("RENTALOPS_DEBUG") != "" {
		f, err := tea.LogToFile("rentalops-debug.log", "rentalops")
		if err != nil {
			fmt.Fprintf(os.Stderr, "rentalops: opening debug log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	}

	configPath := model.DefaultConfigPath()
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rentalops: loading config: %v\n", err)
		os.Exit(1)
	}

	st, err := store.NewSQLiteStore(store.DefaultDBPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "rentalops: opening local store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	p := tea.NewProgram(app.New(cfg, configPath, st), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "rentalops: %v\n", err)
		os.Exit(1)
	}
}
