// Package diagram assembles the intermediate document graph of a network
// diagram: nodes with styles and tooltips, hub edges, ids and z-order.
//
// The document is plain data. Serializers such as render/drawio turn it into
// markup; nothing in this package produces XML.
//
// # Shapes
//
// A [Catalog] maps each archetype to a draw.io stencil. [DefaultCatalog]
// provides the built-in mapping and [Catalog.WithOverrides] applies user
// configuration. The Unknown stencil doubles as the fallback for any archetype
// without an entry.
//
// # Ordering
//
// Edges are listed first and every node is marked to-front, so after
// [Document.ApplyZOrder] shapes always render above the hub lines.
//
// # Escaping
//
// Hostnames, OS strings and service banners come from scan output and are
// untrusted. [Tooltip] escapes every host-derived fragment, and cell values
// escape the label before embedding it in HTML.
package diagram
