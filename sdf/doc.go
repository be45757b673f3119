// Package sdf converts glyph coverage masks into normalized signed distance
// fields.
//
// A field value encodes 0.5 + clamp(d/(2·spread), -0.5, 0.5), where d is the
// signed distance in destination pixels from the pixel center to the nearest
// glyph boundary, positive inside the glyph. Values above 0.5 are inside,
// below 0.5 outside, and exactly 0.5 on the boundary. Pixels further than
// spread from any boundary saturate to 1 (inside) or 0 (outside).
//
// Distances are measured on the supersampled mask and reported per
// destination pixel directly; there is no separate box-filter pass.
//
// # Shader Example
//
//	@fragment
//	fn fs_main(@location(0) uv: vec2<f32>) -> @location(0) vec4<f32> {
//	    let d = textureSample(atlas_tex, samp, uv).r;
//	    let w = fwidth(d);
//	    let alpha = smoothstep(0.5 - w, 0.5 + w, d);
//	    return vec4<f32>(color.rgb, color.a * alpha);
//	}
package sdf
