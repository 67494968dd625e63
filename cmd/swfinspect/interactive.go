package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/swf-abc/swf"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func (p *printer) paint(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

// pageSize is the number of methods shown at once in the list.
const pageSize = 20

type interactiveModel struct {
	err      error
	opts     options
	methods  []methodInfo
	visible  []int // indices into methods that pass the filter
	filter   textinput.Model
	selected int
	state    modelState
	loaded   bool
}

type methodInfo struct {
	tag        int
	module     string
	index      uint32
	name       string
	signature  string
	params     []string
	hasParams  bool
	defaults   []string
	hasBody    bool
	maxStack   uint32
	locals     uint32
	codeLen    int
	exceptions int
}

type modelState int

const (
	stateSelectMethod modelState = iota
	stateShowMethod
)

func newInteractiveModel(o options) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "method name substring"
	ti.Prompt = "filter: "
	ti.Width = 40
	if len(o.patterns) > 0 {
		ti.SetValue(o.patterns[0])
	}
	ti.Focus()
	return &interactiveModel{
		opts:   o,
		filter: ti,
		state:  stateSelectMethod,
	}
}

type loadedMsg struct {
	err     error
	methods []methodInfo
}

func (m *interactiveModel) Init() tea.Cmd {
	return tea.Batch(m.loadFile, textinput.Blink)
}

func (m *interactiveModel) loadFile() tea.Msg {
	f, err := load(m.opts)
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{methods: collectMethods(f)}
}

// collectMethods lists every named method of every decoded module.
func collectMethods(f *swf.File) []methodInfo {
	var out []methodInfo
	for _, match := range f.FindMethods("") {
		mod := match.Module.ABC
		mi := methodInfo{
			tag:       match.Tag,
			module:    match.Module.Name,
			index:     match.Method,
			name:      match.Name,
			params:    match.ParamNames,
			hasParams: match.HasParamNames,
		}
		if sig, err := mod.Signature(match.Method); err == nil {
			mi.signature = sig
		} else {
			mi.signature = match.Name + "(?)"
		}
		if info, err := mod.Method(match.Method); err == nil {
			for _, opt := range info.Options {
				v, err := mod.OptionValue(opt)
				if err != nil {
					mi.defaults = append(mi.defaults, "?")
					continue
				}
				mi.defaults = append(mi.defaults, fmt.Sprintf("%v", v))
			}
		}
		if body, ok := mod.BodyOf(match.Method); ok {
			mi.hasBody = true
			mi.maxStack = body.MaxStack
			mi.locals = body.LocalCount
			mi.codeLen = len(body.Code)
			mi.exceptions = len(body.Exceptions)
		}
		out = append(out, mi)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func (m *interactiveModel) applyFilter() {
	q := m.filter.Value()
	m.visible = m.visible[:0]
	for i, mi := range m.methods {
		if strings.Contains(mi.name, q) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "up":
			if m.state == stateSelectMethod && m.selected > 0 {
				m.selected--
			}
			return m, nil

		case "down":
			if m.state == stateSelectMethod && m.selected < len(m.visible)-1 {
				m.selected++
			}
			return m, nil

		case "enter":
			switch m.state {
			case stateSelectMethod:
				if len(m.visible) > 0 {
					m.state = stateShowMethod
				}
			case stateShowMethod:
				m.state = stateSelectMethod
			}
			return m, nil

		case "esc":
			if m.state == stateShowMethod {
				m.state = stateSelectMethod
				return m, nil
			}
			return m, tea.Quit
		}

	case loadedMsg:
		m.loaded = true
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.methods = msg.methods
		m.applyFilter()
		return m, nil
	}

	if m.state == stateSelectMethod {
		var cmd tea.Cmd
		before := m.filter.Value()
		m.filter, cmd = m.filter.Update(msg)
		if m.filter.Value() != before {
			m.selected = 0
			m.applyFilter()
		}
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress esc to quit.", m.err))
	}
	if !m.loaded {
		return "Loading " + m.opts.file + "..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("SWF Methods"))
	b.WriteString(" ")
	b.WriteString(m.opts.file)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectMethod:
		b.WriteString(m.filter.View())
		b.WriteString(helpStyle.Render(fmt.Sprintf("  %d/%d", len(m.visible), len(m.methods))))
		b.WriteString("\n\n")

		start := 0
		if m.selected >= pageSize {
			start = m.selected - pageSize + 1
		}
		end := min(start+pageSize, len(m.visible))
		for i := start; i < end; i++ {
			mi := m.methods[m.visible[i]]
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + mi.signature))
			} else {
				b.WriteString("  " + formatMethod(mi))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("type to filter • ↑/↓ select • enter details • esc quit"))

	case stateShowMethod:
		mi := m.methods[m.visible[m.selected]]
		b.WriteString(funcStyle.Render(mi.signature))
		b.WriteString("\n\n")
		fmt.Fprintf(&b, "module:  %q (tag %d)\n", mi.module, mi.tag)
		fmt.Fprintf(&b, "method:  #%d\n", mi.index)
		if mi.hasParams {
			fmt.Fprintf(&b, "params:  %s\n", typeStyle.Render(strings.Join(mi.params, ", ")))
		} else {
			b.WriteString("params:  " + helpStyle.Render("names unavailable") + "\n")
		}
		if len(mi.defaults) > 0 {
			fmt.Fprintf(&b, "defaults: %s\n", resultStyle.Render(strings.Join(mi.defaults, ", ")))
		}
		if mi.hasBody {
			fmt.Fprintf(&b, "body:    %d bytes, max stack %d, %d locals, %d handlers\n",
				mi.codeLen, mi.maxStack, mi.locals, mi.exceptions)
		} else {
			b.WriteString("body:    " + helpStyle.Render("none") + "\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter/esc back • ctrl+c quit"))
	}

	return b.String()
}

func formatMethod(mi methodInfo) string {
	open := strings.IndexByte(mi.signature, '(')
	if open < 0 {
		return funcStyle.Render(mi.signature)
	}
	return funcStyle.Render(mi.signature[:open]) + typeStyle.Render(mi.signature[open:])
}

func runInteractive(o options) error {
	p := tea.NewProgram(newInteractiveModel(o), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
