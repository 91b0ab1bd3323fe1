// Package monitor is a bubbletea-based interactive debugger for any
// cpu.CPU/cpu.Bus pair, reusable against both the main 6510 and the
// 1541 drive's 6502 since neither the disassembler nor the register
// display cares which memory map it is looking at.
package monitor

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jrb64/c64core/cpu"
	"github.com/jrb64/c64core/dis/disassembler"
)

type stepTick struct{}

func doStep() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(time.Time) tea.Msg { return stepTick{} })
}

type regSnapshot struct {
	A, X, Y, SP uint8
	PC          uint16
	P           uint8
}

func snapshotOf(c *cpu.CPU) regSnapshot {
	return regSnapshot{A: c.A, X: c.X, Y: c.Y, SP: c.SP, PC: c.PC, P: c.Status(false)}
}

// Monitor is the bubbletea model. Bus must also satisfy
// disassembler.Memory (plain Read(addr) is enough), which every
// cpu.Bus implementation in this module already does.
type Monitor struct {
	name string
	cpu  *cpu.CPU
	bus  cpu.Bus

	paused           bool
	width, height    int
	locations        []disassembler.Location
	selectedLocation int

	last regSnapshot

	activePane  string // "disasm" or "stack"
	gotoInput   textinput.Model
	showingGoto bool

	breakpoints map[uint16]bool
}

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	changed   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF6B6B"}

	titleStyle = lipgloss.NewStyle().Foreground(subtle).Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(highlight).
			Padding(1).
			Width(30)

	stackStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(special).
			Padding(1).
			Width(30)

	disasmStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(highlight).
			Padding(1)

	changedStyle      = lipgloss.NewStyle().Foreground(changed).Bold(true)
	currentLineStyle  = lipgloss.NewStyle().Background(highlight).Foreground(lipgloss.Color("#ffffff"))
	selectedLineStyle = lipgloss.NewStyle().Foreground(highlight)
	breakpointStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
)

// New builds a monitor over the given CPU. name labels the title bar
// ("main" or "drive"); bus must be the same Bus the CPU was created
// with.
func New(name string, c *cpu.CPU, bus cpu.Bus) *Monitor {
	ti := textinput.New()
	ti.Placeholder = "Enter hex address (e.g. FF00)"
	ti.CharLimit = 4
	ti.Width = 6

	m := &Monitor{
		name:        name,
		cpu:         c,
		bus:         bus,
		paused:      true,
		locations:   disassembler.DisassembleInstructions(busMemory{bus}),
		activePane:  "disasm",
		gotoInput:   ti,
		breakpoints: make(map[uint16]bool),
	}
	m.relocate()
	return m
}

// busMemory adapts cpu.Bus to disassembler.Memory; the two interfaces
// happen to share the Read signature but are kept distinct so neither
// package depends on the other's exact shape.
type busMemory struct{ bus cpu.Bus }

func (b busMemory) Read(addr uint16) uint8 { return b.bus.Read(addr) }

func (m *Monitor) relocate() {
	for i, l := range m.locations {
		if l.PC == m.cpu.PC {
			m.selectedLocation = i
			return
		}
	}
}

func (m Monitor) Init() tea.Cmd { return nil }

func (m Monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepTick:
		if m.paused || m.breakpoints[m.cpu.PC] {
			m.paused = true
			return m, nil
		}
		m.last = snapshotOf(m.cpu)
		m.cpu.Step()
		m.relocate()
		return m, doStep()

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		if m.showingGoto {
			switch msg.Type {
			case tea.KeyEnter:
				if addr, err := strconv.ParseUint(m.gotoInput.Value(), 16, 16); err == nil {
					m.jumpTo(uint16(addr))
				}
				m.showingGoto = false
				return m, nil
			case tea.KeyEsc:
				m.showingGoto = false
				return m, nil
			}
			var cmd tea.Cmd
			m.gotoInput, cmd = m.gotoInput.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "g":
			m.showingGoto = true
			m.gotoInput.Focus()
			return m, textinput.Blink
		case "q", "ctrl+c":
			return m, tea.Quit
		case "s":
			if m.paused {
				m.last = snapshotOf(m.cpu)
				m.cpu.Step()
				m.relocate()
			}
		case "b":
			addr := m.locations[m.selectedLocation].PC
			if m.breakpoints[addr] {
				delete(m.breakpoints, addr)
			} else {
				m.breakpoints[addr] = true
			}
		case "n":
			if m.paused && len(m.breakpoints) > 0 {
				m.paused = false
				return m, doStep()
			}
		case "p":
			m.paused = !m.paused
		case "up":
			if m.selectedLocation > 0 {
				m.selectedLocation--
			}
		case "down":
			if m.selectedLocation < len(m.locations)-1 {
				m.selectedLocation++
			}
		case "pgup":
			m.selectedLocation -= 20
			if m.selectedLocation < 0 {
				m.selectedLocation = 0
			}
		case "pgdown":
			m.selectedLocation += 20
			if m.selectedLocation > len(m.locations)-20 {
				m.selectedLocation = len(m.locations) - 20
			}
		}
	}
	return m, nil
}

func (m *Monitor) jumpTo(addr uint16) {
	for i, l := range m.locations {
		if l.PC == addr {
			m.selectedLocation = i
			return
		}
	}
}

func (m Monitor) formatReg8(name string, current, last uint8) string {
	value := fmt.Sprintf("%s: $%02X", name, current)
	if current != last {
		return changedStyle.Render(value)
	}
	return value
}

func (m Monitor) formatReg16(name string, current, last uint16) string {
	value := fmt.Sprintf("%s: $%04X", name, current)
	if current != last {
		return changedStyle.Render(value)
	}
	return value
}

func (m Monitor) formatFlags() string {
	flags := []struct {
		name string
		bit  uint8
	}{
		{"N", cpu.FlagN}, {"V", cpu.FlagV}, {"B", cpu.FlagB},
		{"D", cpu.FlagD}, {"I", cpu.FlagI}, {"Z", cpu.FlagZ}, {"C", cpu.FlagC},
	}
	p := m.cpu.Status(false)
	var out strings.Builder
	for _, f := range flags {
		if p&f.bit != 0 {
			if m.last.P&f.bit == 0 {
				out.WriteString(changedStyle.Render(f.name + " "))
			} else {
				out.WriteString(f.name + " ")
			}
		} else {
			out.WriteString("- ")
		}
	}
	return out.String()
}

func (m Monitor) disassemble() string {
	var out strings.Builder
	for i := 0; i < 20 && m.selectedLocation+i < len(m.locations); i++ {
		l := m.locations[m.selectedLocation+i]
		line := l.String()
		switch {
		case m.breakpoints[l.PC] && l.PC == m.cpu.PC:
			line = currentLineStyle.Render("● " + line)
		case m.breakpoints[l.PC]:
			line = breakpointStyle.Render("● " + line)
		case l.PC == m.cpu.PC:
			line = currentLineStyle.Render(line)
		case m.selectedLocation+i == m.selectedLocation:
			line = selectedLineStyle.Render(line)
		}
		out.WriteString(line)
		out.WriteString("\n")
	}
	return out.String()
}

func (m Monitor) formatStack() string {
	var out strings.Builder
	for i := uint16(0xFF); i >= uint16(m.cpu.SP); i-- {
		out.WriteString(fmt.Sprintf("$%02X: %02X\n", i, m.bus.Read(0x0100+i)))
		if i == 0 {
			break
		}
	}
	return out.String()
}

func (m Monitor) View() string {
	disasm := disasmStyle.Width(40).Render(fmt.Sprintf("Disassembly (%s)\n\n%s", m.name, m.disassemble()))

	cpuState := infoStyle.Render(fmt.Sprintf(
		"CPU State\n\n%s    %s    %s\n%s  %s\n\nFlags: %s\n",
		m.formatReg8("A", m.cpu.A, m.last.A),
		m.formatReg8("X", m.cpu.X, m.last.X),
		m.formatReg8("Y", m.cpu.Y, m.last.Y),
		m.formatReg16("PC", m.cpu.PC, m.last.PC),
		m.formatReg8("SP", m.cpu.SP, m.last.SP),
		m.formatFlags(),
	))

	stack := stackStyle.Render(fmt.Sprintf("Stack\n\n%s", m.formatStack()))

	right := lipgloss.JoinVertical(lipgloss.Left, cpuState, stack)

	var help string
	if !m.paused {
		help = titleStyle.Render("p: pause • q: quit")
	} else {
		help = titleStyle.Render(
			"s: step • n: run to break • p: pause/resume • b: toggle break • " +
				"↑↓: scroll • pgup/pgdn: page • g: goto • q: quit")
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, disasm, lipgloss.PlaceHorizontal(3, lipgloss.Left, right))

	if m.showingGoto {
		dialog := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1).Width(30).
			Render("Go to address:\n\n" + m.gotoInput.View())
		return lipgloss.JoinVertical(lipgloss.Center, content, help, dialog)
	}
	return lipgloss.JoinVertical(lipgloss.Left, content, help)
}
