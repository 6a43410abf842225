// SPDX-License-Identifier: Unlicense OR MIT

// Package egl creates offscreen EGL contexts for desktop OpenGL and
// OpenGL ES, loading libEGL at run time.
package egl

import (
	"errors"
	"fmt"
	"sync"

	"mochi.dev/internal/dl"
)

// API selects the client API of a context.
type API uint8

const (
	OpenGLES API = iota
	OpenGL
)

func (a API) String() string {
	switch a {
	case OpenGLES:
		return "OpenGL ES"
	case OpenGL:
		return "OpenGL"
	default:
		return fmt.Sprintf("API(%d)", uint8(a))
	}
}

type (
	_EGLint     = int32
	_EGLBoolean = uint32
	_EGLDisplay = uintptr
	_EGLConfig  = uintptr
	_EGLContext = uintptr
	_EGLSurface = uintptr
)

const (
	_EGL_ALPHA_SIZE                  = 0x3021
	_EGL_BLUE_SIZE                   = 0x3022
	_EGL_CONTEXT_CLIENT_VERSION      = 0x3098
	_EGL_CONTEXT_MAJOR_VERSION       = 0x3098
	_EGL_CONTEXT_MINOR_VERSION       = 0x30FB
	_EGL_CONTEXT_OPENGL_CORE_PROFILE = 0x1
	_EGL_CONTEXT_OPENGL_PROFILE_MASK = 0x30FD
	_EGL_DEPTH_SIZE                  = 0x3025
	_EGL_GREEN_SIZE                  = 0x3023
	_EGL_HEIGHT                      = 0x3056
	_EGL_NONE                        = 0x3038
	_EGL_OPENGL_API                  = 0x30A2
	_EGL_OPENGL_BIT                  = 0x8
	_EGL_OPENGL_ES3_BIT              = 0x40
	_EGL_OPENGL_ES_API               = 0x30A0
	_EGL_PBUFFER_BIT                 = 0x1
	_EGL_RED_SIZE                    = 0x3024
	_EGL_RENDERABLE_TYPE             = 0x3040
	_EGL_SURFACE_TYPE                = 0x3033
	_EGL_VENDOR                      = 0x3053
	_EGL_VERSION                     = 0x3054
	_EGL_WIDTH                       = 0x3057
)

var ErrInvalidSize = errors.New("egl: invalid surface size")

var (
	eglBindAPI              func(api uint32) _EGLBoolean
	eglChooseConfig         func(disp _EGLDisplay, attribs *_EGLint, configs *_EGLConfig, size _EGLint, num *_EGLint) _EGLBoolean
	eglCreateContext        func(disp _EGLDisplay, cfg _EGLConfig, share _EGLContext, attribs *_EGLint) _EGLContext
	eglCreatePbufferSurface func(disp _EGLDisplay, cfg _EGLConfig, attribs *_EGLint) _EGLSurface
	eglDestroyContext       func(disp _EGLDisplay, ctx _EGLContext) _EGLBoolean
	eglDestroySurface       func(disp _EGLDisplay, surf _EGLSurface) _EGLBoolean
	eglGetDisplay           func(native uintptr) _EGLDisplay
	eglGetError             func() _EGLint
	eglGetProcAddress       func(name *byte) uintptr
	eglInitialize           func(disp _EGLDisplay, major, minor *_EGLint) _EGLBoolean
	eglMakeCurrent          func(disp _EGLDisplay, draw, read _EGLSurface, ctx _EGLContext) _EGLBoolean
	eglQueryString          func(disp _EGLDisplay, name _EGLint) *byte
	eglReleaseThread        func() _EGLBoolean
	eglSwapBuffers          func(disp _EGLDisplay, surf _EGLSurface) _EGLBoolean
	eglSwapInterval         func(disp _EGLDisplay, interval _EGLint) _EGLBoolean
	eglTerminate            func(disp _EGLDisplay) _EGLBoolean
)

var (
	loadOnce sync.Once
	libEGL   *dl.Library
	loadErr  error
)

func loadEGL() error {
	loadOnce.Do(func() {
		libEGL, loadErr = dl.Open(libNames...)
		if loadErr != nil {
			return
		}
		loadErr = dl.Bind([]dl.Func{
			{Ptr: &eglBindAPI, Name: "eglBindAPI"},
			{Ptr: &eglChooseConfig, Name: "eglChooseConfig"},
			{Ptr: &eglCreateContext, Name: "eglCreateContext"},
			{Ptr: &eglCreatePbufferSurface, Name: "eglCreatePbufferSurface"},
			{Ptr: &eglDestroyContext, Name: "eglDestroyContext"},
			{Ptr: &eglDestroySurface, Name: "eglDestroySurface"},
			{Ptr: &eglGetDisplay, Name: "eglGetDisplay"},
			{Ptr: &eglGetError, Name: "eglGetError"},
			{Ptr: &eglGetProcAddress, Name: "eglGetProcAddress"},
			{Ptr: &eglInitialize, Name: "eglInitialize"},
			{Ptr: &eglMakeCurrent, Name: "eglMakeCurrent"},
			{Ptr: &eglQueryString, Name: "eglQueryString"},
			{Ptr: &eglReleaseThread, Name: "eglReleaseThread"},
			{Ptr: &eglSwapBuffers, Name: "eglSwapBuffers"},
			{Ptr: &eglSwapInterval, Name: "eglSwapInterval"},
			{Ptr: &eglTerminate, Name: "eglTerminate"},
		}, libEGL.Sym)
	})
	return loadErr
}

// Context is a current-able EGL context rendering to a pbuffer
// surface.
type Context struct {
	api     API
	disp    _EGLDisplay
	cfg     _EGLConfig
	ctx     _EGLContext
	surf    _EGLSurface
	width   int
	height  int
	version string
}

// NewContext creates a context for api with a width×height pbuffer
// surface and makes it current on the calling thread. Everything
// allocated is released again if any step fails.
func NewContext(api API, width, height int) (*Context, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}
	if err := loadEGL(); err != nil {
		return nil, err
	}
	c := &Context{api: api, width: width, height: height}
	if err := c.init(); err != nil {
		c.Release()
		return nil, err
	}
	return c, nil
}

func (c *Context) init() error {
	c.disp = eglGetDisplay(0)
	if c.disp == 0 {
		return fmt.Errorf("eglGetDisplay(EGL_DEFAULT_DISPLAY) failed: 0x%x", eglGetError())
	}
	var major, minor _EGLint
	if eglInitialize(c.disp, &major, &minor) == 0 {
		d := c.disp
		c.disp = 0
		return fmt.Errorf("eglInitialize failed: 0x%x (display %#x)", eglGetError(), d)
	}
	c.version = fmt.Sprintf("%d.%d", major, minor)

	bindAPI, renderable := uint32(_EGL_OPENGL_ES_API), _EGLint(_EGL_OPENGL_ES3_BIT)
	ctxAttribs := []_EGLint{_EGL_CONTEXT_CLIENT_VERSION, 3, _EGL_NONE}
	if c.api == OpenGL {
		bindAPI, renderable = _EGL_OPENGL_API, _EGL_OPENGL_BIT
		ctxAttribs = []_EGLint{
			_EGL_CONTEXT_MAJOR_VERSION, 3,
			_EGL_CONTEXT_MINOR_VERSION, 2,
			_EGL_CONTEXT_OPENGL_PROFILE_MASK, _EGL_CONTEXT_OPENGL_CORE_PROFILE,
			_EGL_NONE,
		}
	}
	if eglBindAPI(bindAPI) == 0 {
		return fmt.Errorf("eglBindAPI(%s) failed: 0x%x", c.api, eglGetError())
	}
	attribs := []_EGLint{
		_EGL_SURFACE_TYPE, _EGL_PBUFFER_BIT,
		_EGL_RENDERABLE_TYPE, renderable,
		_EGL_RED_SIZE, 8,
		_EGL_GREEN_SIZE, 8,
		_EGL_BLUE_SIZE, 8,
		_EGL_ALPHA_SIZE, 8,
		_EGL_DEPTH_SIZE, 0,
		_EGL_NONE,
	}
	var num _EGLint
	if eglChooseConfig(c.disp, &attribs[0], &c.cfg, 1, &num) == 0 {
		return fmt.Errorf("eglChooseConfig failed: 0x%x", eglGetError())
	}
	if num == 0 || c.cfg == 0 {
		return fmt.Errorf("eglChooseConfig returned 0 configs for %s", c.api)
	}
	surfAttribs := []_EGLint{
		_EGL_WIDTH, _EGLint(c.width),
		_EGL_HEIGHT, _EGLint(c.height),
		_EGL_NONE,
	}
	c.surf = eglCreatePbufferSurface(c.disp, c.cfg, &surfAttribs[0])
	if c.surf == 0 {
		return fmt.Errorf("eglCreatePbufferSurface failed: 0x%x", eglGetError())
	}
	c.ctx = eglCreateContext(c.disp, c.cfg, 0, &ctxAttribs[0])
	if c.ctx == 0 {
		return fmt.Errorf("eglCreateContext(%s) failed: 0x%x", c.api, eglGetError())
	}
	return c.MakeCurrent()
}

// API returns the client API of the context.
func (c *Context) API() API { return c.api }

// Version returns the EGL version of the display.
func (c *Context) Version() string { return c.version }

// Vendor returns the EGL vendor string.
func (c *Context) Vendor() string {
	if c.disp == 0 {
		return ""
	}
	return dl.GoString(eglQueryString(c.disp, _EGL_VENDOR))
}

// MakeCurrent binds the context and its surface to the calling thread.
func (c *Context) MakeCurrent() error {
	if eglMakeCurrent(c.disp, c.surf, c.surf, c.ctx) == 0 {
		return fmt.Errorf("eglMakeCurrent error 0x%x", eglGetError())
	}
	return nil
}

// SetSwapInterval sets the number of frames Present waits for.
func (c *Context) SetSwapInterval(interval int) {
	eglSwapInterval(c.disp, _EGLint(interval))
}

// Present swaps the surface buffers.
func (c *Context) Present() error {
	if c.surf == 0 {
		return errors.New("egl: context is not active")
	}
	if eglSwapBuffers(c.disp, c.surf) == 0 {
		return fmt.Errorf("eglSwapBuffers failed (%x)", eglGetError())
	}
	return nil
}

// GetProcAddress resolves a client API entry point, or returns 0.
func (c *Context) GetProcAddress(name string) uintptr {
	if eglGetProcAddress == nil {
		return 0
	}
	return eglGetProcAddress(dl.CString(name))
}

// Release unbinds the context from the thread before destroying the
// surface and the context and terminating the display. It is safe to
// call on a partially initialized or already released context.
func (c *Context) Release() {
	if c == nil || c.disp == 0 {
		return
	}
	eglMakeCurrent(c.disp, 0, 0, 0)
	if c.surf != 0 {
		eglDestroySurface(c.disp, c.surf)
		c.surf = 0
	}
	if c.ctx != 0 {
		eglDestroyContext(c.disp, c.ctx)
		c.ctx = 0
	}
	eglTerminate(c.disp)
	eglReleaseThread()
	c.disp = 0
}
