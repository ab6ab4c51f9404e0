package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/luketas/soccer-ai/internal/config"
	"github.com/luketas/soccer-ai/internal/pitch"
	"github.com/luketas/soccer-ai/internal/shared/logger"
	"github.com/luketas/soccer-ai/internal/shared/types"
	"github.com/luketas/soccer-ai/internal/simulation"
	"github.com/luketas/soccer-ai/internal/tuning"
)

const (
	hudRows = 2
	// keyHoldMs keeps a direction pressed between terminal key repeats.
	keyHoldMs  = 180
	eventLogMs = 2500
)

var (
	selfStyle     = tcell.StyleDefault.Foreground(tcell.ColorDodgerBlue).Bold(true)
	opponentStyle = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	ballStyle     = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	lineStyle     = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	hudStyle      = tcell.StyleDefault.Foreground(tcell.ColorWhite)
)

type flash struct {
	text string
	at   time.Time
}

type Game struct {
	screen        tcell.Screen
	width, height int

	world *simulation.World
	pitch pitch.Pitch
	dt    float64

	moveX, moveZ float64
	moveAt       time.Time
	sprint       bool
	seq          uint64
	pending      types.HumanInput

	flashes []flash
}

func NewGame(world *simulation.World, p pitch.Pitch, tickRate int) (*Game, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	g := &Game{
		screen: screen,
		world:  world,
		pitch:  p,
		dt:     1.0 / float64(tickRate),
	}
	g.width, g.height = screen.Size()
	return g, nil
}

// project maps pitch coordinates to a screen cell. The self team attacks
// to the right.
func (g *Game) project(x, z float64) (int, int) {
	rows := g.height - hudRows
	depth := g.pitch.HalfLength + g.pitch.GoalDepth
	col := int(math.Round((x + depth) / (2 * depth) * float64(g.width-1)))
	row := int(math.Round((z + g.pitch.HalfWidth) / (2 * g.pitch.HalfWidth) * float64(rows-1)))
	return col, row + hudRows
}

func (g *Game) drawPitch() {
	p := g.pitch
	left, top := g.project(-p.HalfLength, -p.HalfWidth)
	right, bottom := g.project(p.HalfLength, p.HalfWidth)
	mid, _ := g.project(0, 0)
	for x := left; x <= right; x++ {
		g.screen.SetContent(x, top, '-', nil, lineStyle)
		g.screen.SetContent(x, bottom, '-', nil, lineStyle)
	}
	for y := top; y <= bottom; y++ {
		g.screen.SetContent(left, y, '|', nil, lineStyle)
		g.screen.SetContent(right, y, '|', nil, lineStyle)
		g.screen.SetContent(mid, y, ':', nil, lineStyle)
	}
	for _, side := range []pitch.Side{pitch.West, pitch.East} {
		gx := p.GoalLineX(side) + float64(side)*p.GoalDepth
		_, y0 := g.project(0, -p.GoalHalfWidth)
		_, y1 := g.project(0, p.GoalHalfWidth)
		col, _ := g.project(gx, 0)
		for y := y0; y <= y1; y++ {
			g.screen.SetContent(col, y, '#', nil, lineStyle)
		}
	}
}

func roleRune(name string) rune {
	role, ok := tuning.ParseRole(name)
	if !ok {
		return '?'
	}
	switch role {
	case tuning.Goalkeeper:
		return 'G'
	case tuning.Defender:
		return 'D'
	case tuning.Midfielder:
		return 'M'
	case tuning.Attacker:
		return 'A'
	default:
		return '?'
	}
}

func (g *Game) draw(state types.MatchState) {
	g.screen.Clear()
	g.drawPitch()

	for _, a := range state.Actors {
		style := selfStyle
		if a.Team == "opponent" {
			style = opponentStyle
		}
		if a.Active {
			style = style.Reverse(true)
		}
		r := roleRune(a.Role)
		if a.Diving {
			r = '*'
		}
		x, y := g.project(a.Position.X, a.Position.Z)
		g.screen.SetContent(x, y, r, nil, style)
	}
	bx, by := g.project(state.Ball.Position.X, state.Ball.Position.Z)
	ball := 'o'
	if state.Ball.Position.Y > 1.5 {
		ball = 'O'
	}
	g.screen.SetContent(bx, by, ball, nil, ballStyle)

	secs := state.Score.TimeRemainingMS / 1000
	hud := fmt.Sprintf(" SELF %d - %d OPP   %02d:%02d   self:%s opp:%s",
		state.Score.Self, state.Score.Opponent, secs/60, secs%60,
		state.Strategy["self"], state.Strategy["opponent"])
	if state.Finished {
		hud += "   FULL TIME"
	}
	g.text(0, 0, hud, hudStyle)
	g.text(0, 1, " arrows/wasd move  shift+letter sprint  x pass  space shoot/tackle  tab switch  esc quit", hudStyle.Dim(true))

	now := time.Now()
	col := len(hud) + 3
	for _, f := range g.flashes {
		if now.Sub(f.at).Milliseconds() < eventLogMs {
			g.text(col, 0, f.text, ballStyle)
			col += len(f.text) + 1
		}
	}
	g.screen.Show()
}

func (g *Game) text(x, y int, s string, style tcell.Style) {
	for i, r := range s {
		if x+i >= g.width {
			return
		}
		g.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (g *Game) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyTab:
			g.pending.Switch = true
		case tcell.KeyUp:
			g.steer(0, -1, ev.Modifiers()&tcell.ModShift != 0)
		case tcell.KeyDown:
			g.steer(0, 1, ev.Modifiers()&tcell.ModShift != 0)
		case tcell.KeyLeft:
			g.steer(-1, 0, ev.Modifiers()&tcell.ModShift != 0)
		case tcell.KeyRight:
			g.steer(1, 0, ev.Modifiers()&tcell.ModShift != 0)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'w', 'W':
				g.steer(0, -1, ev.Rune() == 'W')
			case 's', 'S':
				g.steer(0, 1, ev.Rune() == 'S')
			case 'a', 'A':
				g.steer(-1, 0, ev.Rune() == 'A')
			case 'd', 'D':
				g.steer(1, 0, ev.Rune() == 'D')
			case 'x':
				g.pending.Pass = true
			case ' ':
				g.pending.Shoot = true
			}
		}
	case *tcell.EventResize:
		g.width, g.height = g.screen.Size()
		g.screen.Sync()
	}
	return true
}

// steer blends a key press into the held direction. Terminals only report
// presses, so the direction expires after keyHoldMs without a repeat.
func (g *Game) steer(x, z float64, sprint bool) {
	if time.Since(g.moveAt).Milliseconds() > keyHoldMs {
		g.moveX, g.moveZ = 0, 0
	}
	if x != 0 {
		g.moveX = x
	}
	if z != 0 {
		g.moveZ = z
	}
	g.sprint = sprint
	g.moveAt = time.Now()
}

func (g *Game) input() types.HumanInput {
	in := g.pending
	g.pending = types.HumanInput{}
	if time.Since(g.moveAt).Milliseconds() <= keyHoldMs {
		in.MoveX, in.MoveZ, in.Sprint = g.moveX, g.moveZ, g.sprint
	}
	g.seq++
	in.Sequence = g.seq
	in.ClientMS = time.Now().UTC().UnixMilli()
	return in
}

func (g *Game) record(events []types.GameplayEvent) {
	now := time.Now()
	kept := g.flashes[:0]
	for _, f := range g.flashes {
		if now.Sub(f.at).Milliseconds() < eventLogMs {
			kept = append(kept, f)
		}
	}
	g.flashes = kept
	for _, ev := range events {
		switch ev.Type {
		case types.EventGoal, types.EventSave, types.EventMiss, types.EventTackle:
			g.flashes = append(g.flashes, flash{text: fmt.Sprintf("[%s %s]", ev.Type, ev.Detail), at: now})
		}
	}
	if len(g.flashes) > 4 {
		g.flashes = g.flashes[len(g.flashes)-4:]
	}
}

func (g *Game) run() {
	ticker := time.NewTicker(time.Duration(g.dt * float64(time.Second)))
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			// PollEvent returns nil once the screen is finalized
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-quit:
				return
			}
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !g.handleInput(ev) {
				return
			}
		case <-ticker.C:
			g.world.ApplyInput(g.input())
			g.world.Tick(g.dt)
			state := g.world.Snapshot()
			g.record(state.Events)
			g.draw(state)
		}
	}
}

func (g *Game) cleanup() {
	g.screen.Fini()
}

func main() {
	flags := pflag.NewFlagSet("pitchview", pflag.ExitOnError)
	cfgPath := flags.String("config", "", "path to a json, yaml or toml config file")
	logPath := flags.String("log", "pitchview.log", "log file; the terminal is taken by the viewer")
	flags.String("difficulty", "medium", "opponent difficulty: easy|medium|hard")
	flags.Bool("humanControl", true, "steer the self team from the keyboard")
	flags.Uint64("seed", 1, "random seed")
	_ = flags.Parse(os.Args[1:])

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log := logger.NewWithWriter("pitchview", logFile)

	if err := config.Load(*cfgPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	viper.SetDefault("humanControl", true)
	if err := viper.BindPFlags(flags); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}
	settings := config.Current(log)
	logger.SetLevel(settings.LogLevel)
	params, err := config.Tuning()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decode tuning: %v\n", err)
		os.Exit(1)
	}

	world := simulation.NewWorld(uuid.NewString(), settings.MatchDuration, simulation.Config{
		Params:             params,
		SelfDifficulty:     settings.TeamDifficulty,
		OpponentDifficulty: settings.Difficulty,
		HumanControl:       settings.HumanControl,
		Seed:               settings.Seed,
		MaxFrameDelta:      settings.MaxFrameDelta,
		Celebration:        settings.Celebration,
	}, log)

	game, err := NewGame(world, params.Pitch, settings.TickRate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer game.cleanup()

	game.run()
}
