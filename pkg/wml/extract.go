package wml

import (
	"archive/zip"
	"bytes"
	"io"

	"github.com/beevik/etree"
)

// ExtractSOAP isolates the WaterML payload from a raw SOAP envelope.
// When unzip is true the input is first treated as a single-entry zip
// archive (the WaterOneFlow archive cache wraps responses this way);
// any decompression failure falls back to using the input as raw XML,
// so a malformed archive never fails the pipeline by itself.
func ExtractSOAP(data []byte, version string, unzip bool) ([]byte, error) {
	if unzip {
		data = unwrapArchive(data)
	}
	return extract(data, Namespace(version))
}

// ExtractREST isolates the WaterML payload from a REST response body.
// REST bodies are never archive-wrapped and live REST endpoints only
// emit 1.1-shaped payloads.
func ExtractREST(data []byte) ([]byte, error) {
	return extract(data, NamespaceWML11)
}

// unwrapArchive replaces data with the concatenated content of the
// first member of a zip archive. On any archive error the original
// bytes are returned unchanged.
func unwrapArchive(data []byte) []byte {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return data
	}
	for _, member := range zr.File {
		f, err := member.Open()
		if err != nil {
			return data
		}
		raw, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return data
		}
		return raw
	}
	return data
}

// extract locates the first ResponseTag element in namespace ns and
// returns that subtree serialized as bytes.
func extract(data []byte, ns string) ([]byte, error) {
	root, err := Parse(data)
	if err != nil {
		return nil, err
	}
	resp := ProjectTree(root, ns, []string{ResponseTag})
	if resp == nil {
		return nil, ExtractionError(ns)
	}
	top := resp.Copy()
	carryNamespaces(resp, top)
	doc := etree.NewDocument()
	doc.SetRoot(top)
	res, err := doc.WriteToBytes()
	if err != nil {
		return nil, ParseError(err)
	}
	return res, nil
}

// carryNamespaces copies namespace declarations that are in scope at
// src (declared on ancestors, typically the SOAP envelope) onto dst,
// so the serialized subtree stays resolvable on its own.
func carryNamespaces(src, dst *etree.Element) {
	for p := src.Parent(); p != nil; p = p.Parent() {
		for _, attr := range p.Attr {
			isDefault := attr.Space == "" && attr.Key == "xmlns"
			if attr.Space != "xmlns" && !isDefault {
				continue
			}
			if dst.SelectAttr(attr.FullKey()) == nil {
				dst.CreateAttr(attr.FullKey(), attr.Value)
			}
		}
	}
}
