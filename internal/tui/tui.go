// Package tui is the interactive table: a Bubble Tea model that walks a
// human player through betting, insurance, hand decisions and settlement,
// one round at a time against the house.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjacklab/internal/deck"
	"github.com/lox/blackjacklab/internal/game"
	"github.com/lox/blackjacklab/internal/roundid"
	"github.com/lox/blackjacklab/internal/session"
	"github.com/lox/blackjacklab/internal/strategy"
)

type phase int

const (
	phaseBet phase = iota
	phaseInsurance
	phasePlayer
	phaseSettled
	phaseBroke
)

type keyMap struct {
	Hit       key.Binding
	Stand     key.Binding
	Double    key.Binding
	Split     key.Binding
	Surrender key.Binding
	Yes       key.Binding
	No        key.Binding
	Confirm   key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Hit:       key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hit")),
		Stand:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stand")),
		Double:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "double")),
		Split:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "split")),
		Surrender: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "surrender")),
		Yes:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		No:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap; the bindings shown depend on phase so
// the Model renders its own line instead.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Hit, k.Stand, k.Double, k.Split, k.Surrender, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Hit, k.Stand, k.Double},
		{k.Split, k.Surrender},
		{k.Confirm, k.Quit},
	}
}

// Model drives one interactive session. Round lifecycle and settlement
// rules live in the game package; the model only translates keys into
// actions and renders state.
type Model struct {
	rules  game.Rules
	shoe   *deck.Shoe
	logger *log.Logger
	sinks  []session.Sink
	advise strategy.Strategy

	keys     keyMap
	help     help.Model
	betInput textinput.Model

	phase    phase
	round    *game.Round
	result   *game.Result
	bankroll float64
	lastBet  int
	rounds   int
	errMsg   string
	quitting bool
	width    int
}

// Option configures a Model.
type Option func(*Model)

// WithSink forwards every settled round to a sink (history, store).
func WithSink(sink session.Sink) Option {
	return func(m *Model) {
		if sink != nil {
			m.sinks = append(m.sinks, sink)
		}
	}
}

// WithLogger attaches a logger for round debug output.
func WithLogger(logger *log.Logger) Option {
	return func(m *Model) { m.logger = logger }
}

// New creates the interactive model.
func New(rules game.Rules, shoe *deck.Shoe, bankroll float64, baseBet int, opts ...Option) *Model {
	ti := textinput.New()
	ti.Prompt = "bet> "
	ti.PromptStyle = labelStyle
	ti.CharLimit = 10
	ti.Width = 12
	ti.SetValue(strconv.Itoa(baseBet))
	ti.Focus()

	m := &Model{
		rules:    rules,
		shoe:     shoe,
		keys:     newKeyMap(),
		help:     help.New(),
		betInput: ti,
		bankroll: bankroll,
		lastBet:  baseBet,
		advise:   strategy.NewBasic(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = log.Default().WithPrefix("tui")
	}
	return m
}

// Bankroll returns the current balance, for the caller's exit summary.
func (m *Model) Bankroll() float64 { return m.bankroll }

// Rounds returns how many rounds were settled.
func (m *Model) Rounds() int { return m.rounds }

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) && m.phase != phaseBet {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.phase {
		case phaseBet:
			return m.updateBet(msg)
		case phaseInsurance:
			return m.updateInsurance(msg)
		case phasePlayer:
			return m.updatePlayer(msg)
		case phaseSettled:
			return m.updateSettled(msg)
		case phaseBroke:
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *Model) updateBet(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
		m.quitting = true
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Confirm) {
		bet, err := strconv.Atoi(strings.TrimSpace(m.betInput.Value()))
		if err != nil {
			m.errMsg = "bets are whole numbers"
			return m, nil
		}
		return m.deal(bet)
	}
	var cmd tea.Cmd
	m.betInput, cmd = m.betInput.Update(msg)
	return m, cmd
}

func (m *Model) deal(bet int) (tea.Model, tea.Cmd) {
	m.errMsg = ""
	if m.shoe.NeedsReshuffle() {
		m.shoe.Reshuffle()
	}
	round := game.NewRound(m.rules, m.shoe,
		game.WithID(roundid.New()),
		game.WithLogger(m.logger))
	if err := round.PlaceBet(bet, m.bankroll); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	if err := round.Deal(); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	m.round = round
	m.lastBet = bet
	switch round.State() {
	case game.StateInsurance:
		m.phase = phaseInsurance
	case game.StateDone:
		return m.settle()
	default:
		m.phase = phasePlayer
	}
	return m, nil
}

func (m *Model) updateInsurance(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		if err := m.round.BuyInsurance(m.lastBet / 2); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
	case key.Matches(msg, m.keys.No):
		if err := m.round.DeclineInsurance(); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
	default:
		return m, nil
	}
	if m.round.State() == game.StateDone {
		return m.settle()
	}
	m.phase = phasePlayer
	return m, nil
}

func (m *Model) updatePlayer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var action game.Action
	switch {
	case key.Matches(msg, m.keys.Hit):
		action = game.Hit
	case key.Matches(msg, m.keys.Stand):
		action = game.Stand
	case key.Matches(msg, m.keys.Double):
		action = game.Double
	case key.Matches(msg, m.keys.Split):
		action = game.Split
	case key.Matches(msg, m.keys.Surrender):
		action = game.Surrender
	default:
		return m, nil
	}
	if err := m.round.Apply(action); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	m.errMsg = ""
	if m.round.State() == game.StateDone {
		return m.settle()
	}
	return m, nil
}

func (m *Model) settle() (tea.Model, tea.Cmd) {
	res, err := m.round.Result()
	if err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	m.result = res
	m.bankroll += res.Net
	m.rounds++
	m.phase = phaseSettled

	for _, sink := range m.sinks {
		if err := sink.RecordRound(context.Background(), res, m.bankroll); err != nil {
			m.logger.Error("failed to record round", "round", res.RoundID, "err", err)
		}
	}
	return m, nil
}

func (m *Model) updateSettled(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, m.keys.Confirm) {
		return m, nil
	}
	if m.bankroll < float64(m.rules.MinBet) {
		m.phase = phaseBroke
		return m, nil
	}
	m.result = nil
	m.round = nil
	m.phase = phaseBet
	bet := m.lastBet
	if float64(bet) > m.bankroll {
		bet = int(m.bankroll)
	}
	m.betInput.SetValue(strconv.Itoa(bet))
	m.betInput.Focus()
	return m, textinput.Blink
}

func (m *Model) View() string {
	if m.quitting {
		return fmt.Sprintf("cashed out %s after %d rounds\n",
			money(m.bankroll), m.rounds)
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("blackjacklab"))
	b.WriteString(infoStyle.Render(fmt.Sprintf("  bankroll %s  shoe %d cards",
		money(m.bankroll), m.shoe.Remaining())))
	b.WriteString("\n\n")

	if m.round != nil {
		b.WriteString(m.renderTable())
	}

	switch m.phase {
	case phaseBet:
		b.WriteString(fmt.Sprintf("place your bet (%d-%d)\n", m.rules.MinBet, m.rules.MaxBet))
		b.WriteString(m.betInput.View())
		b.WriteString("\n")
	case phaseInsurance:
		b.WriteString(labelStyle.Render("insurance?"))
		b.WriteString(infoStyle.Render(fmt.Sprintf(" costs %d, pays 2:1  ", m.lastBet/2)))
		b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.Yes, m.keys.No, m.keys.Quit}))
		b.WriteString("\n")
	case phasePlayer:
		b.WriteString(m.renderAdvice())
		b.WriteString(m.help.ShortHelpView(m.legalBindings()))
		b.WriteString("\n")
	case phaseSettled:
		b.WriteString(m.renderResult())
		b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.Confirm, m.keys.Quit}))
		b.WriteString("\n")
	case phaseBroke:
		b.WriteString(lossStyle.Render("bankroll exhausted"))
		b.WriteString("\n")
		b.WriteString(infoStyle.Render("press any key to leave the table"))
		b.WriteString("\n")
	}

	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderTable() string {
	var b strings.Builder

	b.WriteString(labelStyle.Render("dealer "))
	visible := m.round.DealerVisible()
	b.WriteString(renderCards(visible))
	if m.round.State() != game.StateDone && len(visible) == 1 {
		b.WriteString(" " + hiddenCardStyle.Render("[??]"))
	}
	b.WriteString("\n")

	active := m.round.ActiveHand()
	for i, h := range m.round.Seats() {
		marker := "  "
		style := labelStyle
		if h == active {
			marker = "> "
			style = activeHandStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("%shand %d ", marker, i+1)))
		b.WriteString(renderCards(h.Cards()))
		b.WriteString(infoStyle.Render(fmt.Sprintf(" (%d, bet %d)", h.Value(), h.Wager())))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

// renderAdvice shows the basic-strategy play for the active hand.
func (m *Model) renderAdvice() string {
	h := m.round.ActiveHand()
	up, ok := m.round.UpCard()
	if h == nil || !ok {
		return ""
	}
	hint := m.advise.Decide(h, up, m.round.Legal(), strategy.Context{})
	return infoStyle.Render(fmt.Sprintf("book says %s  ", strings.ToLower(hint.String())))
}

func (m *Model) legalBindings() []key.Binding {
	var out []key.Binding
	for _, a := range m.round.Legal() {
		switch a {
		case game.Hit:
			out = append(out, m.keys.Hit)
		case game.Stand:
			out = append(out, m.keys.Stand)
		case game.Double:
			out = append(out, m.keys.Double)
		case game.Split:
			out = append(out, m.keys.Split)
		case game.Surrender:
			out = append(out, m.keys.Surrender)
		}
	}
	return append(out, m.keys.Quit)
}

func (m *Model) renderResult() string {
	var b strings.Builder
	for i, seat := range m.result.Seats {
		style := pushStyle
		if seat.Outcome.IsWin() {
			style = winStyle
		} else if seat.Outcome.IsLoss() {
			style = lossStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("hand %d: %s %+.2f", i+1, seat.Outcome, seat.Net)))
		b.WriteString("\n")
	}
	if m.result.Insurance.Taken {
		style := lossStyle
		if m.result.Insurance.Won {
			style = winStyle
		}
		b.WriteString(style.Render(fmt.Sprintf("insurance %+.2f", m.result.Insurance.Net)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

func renderCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		style := blackCardStyle
		if c.IsRed() {
			style = redCardStyle
		}
		parts[i] = style.Render(c.String())
	}
	return strings.Join(parts, " ")
}

func money(v float64) string {
	return lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("$%.2f", v))
}
