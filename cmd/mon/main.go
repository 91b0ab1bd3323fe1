// Command mon is a standalone interactive debugger: it loads the same
// ROM images c64emu does, wires up a full machine.Machine, and lets
// the bubbletea monitor single-step either the main CPU or the
// drive's CPU against its own real bus.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jrb64/c64core/internal/monitor"
	"github.com/jrb64/c64core/machine"
)

func main() {
	basicPath := flag.String("basic", "basic-901226-01.bin", "BASIC ROM image")
	kernalPath := flag.String("kernal", "kernal-901227-03.bin", "KERNAL ROM image")
	charPath := flag.String("char", "chargen-901225-01.bin", "character generator ROM image")
	drivePath := flag.String("1541", "dos1541.bin", "1541 DOS ROM image")
	target := flag.String("cpu", "main", `which CPU to monitor: "main" or "drive"`)
	flag.Parse()

	m := machine.NewMachine()
	if err := loadROMs(m, *basicPath, *kernalPath, *charPath, *drivePath); err != nil {
		fmt.Printf("mon: %v\n", err)
		os.Exit(1)
	}
	m.Reset()

	var mon *monitor.Monitor
	switch *target {
	case "main":
		mon = monitor.New("main", m.MainCPU, m.Bus)
	case "drive":
		mon = monitor.New("drive", m.DriveCPU, m.Drive)
	default:
		fmt.Printf("mon: unknown -cpu %q\n", *target)
		os.Exit(1)
	}

	p := tea.NewProgram(mon)
	if _, err := p.Run(); err != nil {
		fmt.Printf("mon: %v\n", err)
		os.Exit(1)
	}
}

func loadROMs(m *machine.Machine, basicPath, kernalPath, charPath, drivePath string) error {
	basic, err := os.ReadFile(basicPath)
	if err != nil {
		return err
	}
	if err := m.Bus.LoadROM(basic, "basic"); err != nil {
		return err
	}
	kernal, err := os.ReadFile(kernalPath)
	if err != nil {
		return err
	}
	if err := m.Bus.LoadROM(kernal, "kernal"); err != nil {
		return err
	}
	char, err := os.ReadFile(charPath)
	if err != nil {
		return err
	}
	if err := m.Bus.LoadROM(char, "char"); err != nil {
		return err
	}
	drv, err := os.ReadFile(drivePath)
	if err != nil {
		return err
	}
	return m.Drive.LoadROM(drv)
}
