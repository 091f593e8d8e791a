// ABOUTME: One-shot mixing engine package
// ABOUTME: Composites short-lived playable sources into each render period
// Package mixer composites an arbitrary number of one-shot sources into
// an output buffer once per render period.
//
// Control code submits sources through Controls.Play; the engine picks
// them up opportunistically with a non-blocking try-lock, so the render
// path never blocks on submission. Sources add into the buffer (linear
// superposition) and are dropped the period after they report
// completion. The caller zero-fills before mixing and clamps after;
// Engine.Render bundles both around FillBuffer.
package mixer
