// Package drawio serializes a [diagram.Document] as a draw.io (.drawio) file.
//
// The output is a single uncompressed mxfile page:
//
//	<mxfile host="app.diagrams.net" agent="netdraw/..." version="22.0.8" type="device">
//	  <diagram id="..." name="Page-1">
//	    <mxGraphModel dx="1200" dy="800" ... pageWidth="850" pageHeight="1100">
//	      <root>
//	        <mxCell id="0"/>
//	        <mxCell id="1" parent="0"/>
//	        ...edges, hub, hosts
//
// [Encode] is deterministic: the diagram id is derived from the content rather
// than generated randomly, so re-running on the same report yields identical
// bytes. [WriteFile] replaces the target atomically.
package drawio
