// Package ui provides the terminal user interface for Showroom.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model owns the view state (selection,
// search input, detail page) while product data and filters live in a
// catalog.Catalog that the model reads on every render. Network calls run as
// tea.Cmd functions and report back through productsMsg and detailMsg.
//
// # Package Structure
//
//   - app.go: Model, Update loop, messages, commands and Run
//   - dashboard.go: product list, search and filter keys
//   - detail.go: product detail page backed by a viewport
//   - header.go: status header, command bar and error classification
//   - help.go: keyboard shortcut overlay built from the key map
//   - theme.go, style_helpers.go: palettes and background-safe rendering
//
// # Views
//
//   - Dashboard: filtered, sorted product list with favorites markers
//   - Detail: a single product fetched by id; leaving the page or opening
//     another product bumps a sequence number so late responses are dropped
//
// # Themes
//
// Nightfox (default), Kanagawa and Slate. T cycles themes and the choice is
// written to the prefs file together with the price sort order.
package ui
