// Package bough is a retained-mode UI view tree for [Ebitengine] with
// touch routing, offscreen layers and inertial scrolling.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	g := bough.NewGraph(bough.Size{Width: 640, Height: 480})
//	// ... add views ...
//	bough.Run(g, bough.RunConfig{Title: "Demo", Width: 640, Height: 480})
//
// For full control, use [NewGame] or drive the graph yourself: poll an
// [InputSource] connected with [Graph.ConnectTouchEvents], then call
// [Graph.Update] and [Graph.Draw].
//
// # Views
//
// Every visual element is a [View]. Views form a tree rooted at
// [Graph.Root]; a view has at most one parent. Positions are relative to the
// parent, and [View.WorldPos] is cached and invalidated along the subtree
// when an ancestor moves. Widgets attach their policy with
// [View.SetBehavior]: a behavior may implement [Drawer], [Layouter],
// [Updater], [TouchResponder], [FirstResponder] and [KeyResponder].
//
// Subviews removed while the tree is being iterated are only marked, and are
// swept once iteration finishes.
//
// # Touches
//
// A touch is claimed in TouchesBegan by exactly one view: the front-most
// interactive view whose hit region contains it and that chose to claim it.
// Moved and ended phases go only to the claiming view. [Button],
// [ScrollView] and [PagingScrollView] are built on this.
//
// # Layers
//
// A view that is transparent or has [Filter]s renders into a pooled
// [FrameBuffer] and is composited once with its alpha and blend mode. Filters
// run as a chain of passes, each reading the previous pass's output.
//
// # Scrolling
//
// [ScrollView] follows the finger with a rubber band outside the content,
// then decelerates under friction with a spring back into bounds. Its
// constants live in [ScrollConfig], loadable from TOML with
// [LoadScrollConfig]. [PagingScrollView] settles on page boundaries.
//
// [Ebitengine]: https://ebitengine.org
package bough
