// SPDX-License-Identifier: Unlicense OR MIT

package gpu

// Built-in programs draw a unit quad mapped to u_rect, in normalized
// device coordinates, with texture coordinates spanning u_uvRect.

const desktopHeader = "#version 150\n"

const esHeader = `#version 300 es
precision highp float;
`

const quadVertex = `in vec2 pos;
uniform vec4 u_rect;
uniform vec4 u_uvRect;
out vec2 v_uv;

void main() {
	v_uv = mix(u_uvRect.xy, u_uvRect.zw, pos);
	gl_Position = vec4(mix(u_rect.xy, u_rect.zw, pos), 0.0, 1.0);
}
`

const solidFragment = `uniform vec4 u_color;
in vec2 v_uv;
out vec4 fragColor;

void main() {
	fragColor = u_color;
}
`

// maxBlurTaps is the largest number of taps per side of the blur
// kernel.
const maxBlurTaps = 16

const blurFragment = `uniform sampler2D u_tex;
uniform vec2 u_dir;
uniform float u_weights[17];
uniform int u_taps;
uniform vec4 u_clamp;
in vec2 v_uv;
out vec4 fragColor;

vec4 tap(vec2 uv) {
	return texture(u_tex, clamp(uv, u_clamp.xy, u_clamp.zw));
}

void main() {
	vec4 sum = tap(v_uv) * u_weights[0];
	for (int i = 1; i <= 16; i++) {
		if (i > u_taps) {
			break;
		}
		vec2 off = u_dir * float(i);
		sum += (tap(v_uv + off) + tap(v_uv - off)) * u_weights[i];
	}
	fragColor = sum;
}
`

const maskFragment = `uniform sampler2D u_tex;
in vec2 v_uv;
out vec4 fragColor;

void main() {
	fragColor = vec4(texture(u_tex, v_uv).a, 0.0, 0.0, 1.0);
}
`

const tintFragment = `uniform sampler2D u_tex;
uniform vec4 u_color;
in vec2 v_uv;
out vec4 fragColor;

void main() {
	fragColor = u_color * texture(u_tex, v_uv).r;
}
`

const adjustFragment = `uniform sampler2D u_tex;
uniform vec3 u_adjust;
uniform vec3 u_luma;
in vec2 v_uv;
out vec4 fragColor;

void main() {
	vec4 c = texture(u_tex, v_uv);
	vec3 rgb = c.rgb * u_adjust.x;
	rgb = (rgb - 0.5) * u_adjust.y + 0.5;
	float l = dot(rgb, u_luma);
	rgb = mix(vec3(l), rgb, u_adjust.z);
	fragColor = vec4(clamp(rgb, 0.0, 1.0), c.a);
}
`

type programID int

const (
	progSolid programID = iota
	progBlur
	progMask
	progTint
	progAdjust
	numPrograms
)

var fragmentSources = [numPrograms]string{
	progSolid:  solidFragment,
	progBlur:   blurFragment,
	progMask:   maskFragment,
	progTint:   tintFragment,
	progAdjust: adjustFragment,
}

// header returns the GLSL dialect line of the backend.
func (c *Context) header() string {
	if c.backend == OpenGLES {
		return esHeader
	}
	return desktopHeader
}
