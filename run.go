package bough

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Game adapts a Graph to ebiten.Game. Each tick polls the InputSource, which
// dispatches touches into the graph, then runs the graph's update pass.
// The graph is resized to the outside size reported by Layout.
type Game struct {
	Graph      *Graph
	Input      *InputSource
	ClearColor Color

	fps   *FPSView
	conns []Connection
}

// NewGame wires an InputSource into g and forwards test-script screenshot
// requests to g.Screenshot.
func NewGame(g *Graph, multiTouch bool) *Game {
	in := NewInputSource(multiTouch)
	gm := &Game{Graph: g, Input: in}
	gm.conns = append(gm.conns,
		g.ConnectTouchEvents(in, 0),
		in.ScreenshotRequested.Connect(g.Screenshot),
	)
	return gm
}

// ShowFPS adds or removes the FPS overlay on top of the graph.
func (gm *Game) ShowFPS(show bool) {
	switch {
	case show && gm.fps == nil:
		gm.fps = NewFPSView()
		gm.Graph.Root().AddSubview(gm.fps.View)
	case !show && gm.fps != nil:
		gm.fps.RemoveFromSuperview()
		gm.fps = nil
	}
}

// Update implements ebiten.Game.
func (gm *Game) Update() error {
	gm.Input.Poll()
	gm.Graph.Update()
	return nil
}

// Draw implements ebiten.Game.
func (gm *Game) Draw(screen *ebiten.Image) {
	if gm.ClearColor.A > 0 {
		screen.Fill(gm.ClearColor.toRGBA())
	}
	gm.Graph.Draw(screen)
}

// Layout implements ebiten.Game.
func (gm *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	gm.Graph.SetSize(Size{float64(outsideWidth), float64(outsideHeight)})
	return outsideWidth, outsideHeight
}

// Close disconnects the game from its graph and input source.
func (gm *Game) Close() {
	for _, c := range gm.conns {
		c.Disconnect()
	}
	gm.conns = nil
}

// Run opens a window and runs g until the window is closed.
//
//	g := bough.NewGraph(bough.Size{Width: 640, Height: 480})
//	// ... add views ...
//	bough.Run(g, bough.RunConfig{Title: "Demo", Width: 640, Height: 480})
func Run(g *Graph, cfg RunConfig) error {
	if cfg.ScrollConfig != nil {
		SetDefaultScrollConfig(*cfg.ScrollConfig)
	}
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
		g.SetSize(Size{float64(cfg.Width), float64(cfg.Height)})
	}
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	gm := NewGame(g, cfg.MultiTouch)
	gm.ClearColor = cfg.ClearColor
	gm.ShowFPS(cfg.ShowFPS)
	defer gm.Close()

	Logger().Info("run", "title", cfg.Title, "width", cfg.Width, "height", cfg.Height)
	return ebiten.RunGame(gm)
}
