// Package pkg provides the core libraries for netdraw network diagrams.
//
// # Overview
//
// netdraw turns an nmap scan report into a draw.io diagram: every discovered
// host becomes a device-shaped node on a grid, optionally connected to a
// central "Network" hub. The pkg directory is organized into three areas:
//
//  1. Domain logic ([scan], [classify], [layout], [diagram])
//  2. Output ([render/drawio], [render/nodelink], [io])
//  3. Orchestration ([pipeline], [observability], [errors])
//
// # Architecture
//
// The data flow through netdraw is strictly sequential:
//
//	nmap report (-oX / -oG / -oN)
//	         ↓
//	    [scan] package (detect format, parse hosts, merge duplicates)
//	         ↓
//	    [classify] package (OS rules, then port rules)
//	         ↓
//	    [layout] package (sort, grid, hub slot)
//	         ↓
//	    [diagram] package (ids, styles, tooltips, z-order)
//	         ↓
//	    [render/drawio] package (mxfile markup, atomic write)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/netdraw/pkg/classify"
//	    "github.com/matzehuels/netdraw/pkg/diagram"
//	    "github.com/matzehuels/netdraw/pkg/layout"
//	    "github.com/matzehuels/netdraw/pkg/render/drawio"
//	    "github.com/matzehuels/netdraw/pkg/scan"
//	)
//
//	// 1. Parse the report
//	inv, _, _ := scan.Parse(content, scan.FormatAuto, scan.Options{})
//
//	// 2. Order and classify
//	hosts := layout.Sort(inv.Hosts(), layout.SortIP)
//	kinds := classify.Default().ClassifyAll(hosts)
//
//	// 3. Place and build
//	placed := layout.Place(hosts, layout.Options{Hub: true})
//	doc, _ := diagram.Build(placed, kinds, diagram.Options{PageName: "Office"})
//
//	// 4. Serialize
//	data, _ := drawio.Encode(doc)
//
// The [pipeline] package wraps these steps with defaults, validation,
// logging and stage hooks; the CLI only ever talks to [pipeline.Runner].
//
// # Testing
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/scan/...       # Specific package
//	go test -run Example ./...   # Examples only
//
// [scan]: https://pkg.go.dev/github.com/matzehuels/netdraw/pkg/scan
// [classify]: https://pkg.go.dev/github.com/matzehuels/netdraw/pkg/classify
// [layout]: https://pkg.go.dev/github.com/matzehuels/netdraw/pkg/layout
// [diagram]: https://pkg.go.dev/github.com/matzehuels/netdraw/pkg/diagram
// [render/drawio]: https://pkg.go.dev/github.com/matzehuels/netdraw/pkg/render/drawio
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/netdraw/pkg/render/nodelink
// [io]: https://pkg.go.dev/github.com/matzehuels/netdraw/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/netdraw/pkg/pipeline
// [observability]: https://pkg.go.dev/github.com/matzehuels/netdraw/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/netdraw/pkg/errors
package pkg
