// SPDX-License-Identifier: Unlicense OR MIT

package gl

type (
	Attrib uint
	Enum   uint
)

const (
	ARRAY_BUFFER             = 0x8892
	BLEND                    = 0xbe2
	CLAMP_TO_EDGE            = 0x812f
	COLOR_ATTACHMENT0        = 0x8ce0
	COLOR_BUFFER_BIT         = 0x4000
	COMPILE_STATUS           = 0x8b81
	DEPTH_BUFFER_BIT         = 0x100
	DEPTH_TEST               = 0xb71
	DST_COLOR                = 0x306
	DYNAMIC_DRAW             = 0x88E8
	ELEMENT_ARRAY_BUFFER     = 0x8893
	EXTENSIONS               = 0x1f03
	FALSE                    = 0
	FLOAT                    = 0x1406
	FRAGMENT_SHADER          = 0x8b30
	FRAMEBUFFER              = 0x8d40
	FRAMEBUFFER_BINDING      = 0x8ca6
	FRAMEBUFFER_COMPLETE     = 0x8cd5
	INFO_LOG_LENGTH          = 0x8B84
	LINEAR                   = 0x2601
	LINES                    = 0x1
	LINE_STRIP               = 0x3
	LINK_STATUS              = 0x8b82
	MAX_TEXTURE_SIZE         = 0xd33
	NO_ERROR                 = 0x0
	NUM_EXTENSIONS           = 0x821D
	ONE                      = 0x1
	ONE_MINUS_DST_ALPHA      = 0x305
	ONE_MINUS_SRC_ALPHA      = 0x303
	ONE_MINUS_SRC_COLOR      = 0x301
	PACK_ALIGNMENT           = 0xd05
	POINTS                   = 0x0
	R8                       = 0x8229
	RED                      = 0x1903
	RENDERER                 = 0x1F01
	SHADING_LANGUAGE_VERSION = 0x8B8C
	RGBA                     = 0x1908
	RGBA8                    = 0x8058
	SCISSOR_TEST             = 0xc11
	SRC_ALPHA                = 0x302
	STATIC_DRAW              = 0x88e4
	TEXTURE_2D               = 0xde1
	TEXTURE_MAG_FILTER       = 0x2800
	TEXTURE_MIN_FILTER       = 0x2801
	TEXTURE_WRAP_S           = 0x2802
	TEXTURE_WRAP_T           = 0x2803
	TEXTURE0                 = 0x84c0
	TRIANGLE_FAN             = 0x6
	TRIANGLE_STRIP           = 0x5
	TRIANGLES                = 0x4
	TRUE                     = 1
	UNPACK_ALIGNMENT         = 0xcf5
	UNSIGNED_BYTE            = 0x1401
	UNSIGNED_INT             = 0x1405
	VENDOR                   = 0x1F00
	VERSION                  = 0x1f02
	VERTEX_SHADER            = 0x8b31
	ZERO                     = 0x0
)
