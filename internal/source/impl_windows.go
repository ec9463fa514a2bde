//go:build windows

package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"syscall"
	"unicode/utf16"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/cdtdelta/logonaudit/internal/query"
	"github.com/cdtdelta/logonaudit/internal/winevent"
)

// Event log API constants.
const (
	evtQueryChannelPath      = 0x1
	evtQueryReverseDirection = 0x200

	evtRenderEventXML = 1

	errNoMoreItems        = 259
	errInsufficientBuffer = 122
)

var (
	wevtapi       = windows.NewLazySystemDLL("wevtapi.dll")
	procEvtOpen   = wevtapi.NewProc("EvtOpenSession")
	procEvtQuery  = wevtapi.NewProc("EvtQuery")
	procEvtNext   = wevtapi.NewProc("EvtNext")
	procEvtRender = wevtapi.NewProc("EvtRender")
	procEvtClose  = wevtapi.NewProc("EvtClose")
)

const evtRPCLogin = 1

// evtRPCLoginStruct mirrors EVT_RPC_LOGIN for remote sessions with
// default (current user) credentials.
type evtRPCLoginStruct struct {
	Server   *uint16
	User     *uint16
	Domain   *uint16
	Password *uint16
	Flags    uint32
}

type liveSource struct {
	// batchSize is how many event handles EvtNext pulls per call.
	batchSize int
}

func newLiveSource() Source {
	return &liveSource{batchSize: 64}
}

// Events queries the host's event log with the filter's XPath and
// renders each matching event as XML. Events come back in the log's
// reverse-chronological order. The context is checked between
// batches; cancellation abandons the query with ctx.Err().
func (s *liveSource) Events(ctx context.Context, host string, f *query.Filter) ([]*winevent.Event, error) {
	session, err := openSession(host)
	if err != nil {
		return nil, err
	}
	if session != 0 {
		defer procEvtClose.Call(session)
	}

	channel, err := syscall.UTF16PtrFromString(f.LogName)
	if err != nil {
		return nil, fmt.Errorf("encoding channel name: %w", err)
	}
	xpath, err := syscall.UTF16PtrFromString(f.XPath())
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}

	h, _, callErr := procEvtQuery.Call(
		session,
		uintptr(unsafe.Pointer(channel)),
		uintptr(unsafe.Pointer(xpath)),
		evtQueryChannelPath|evtQueryReverseDirection,
	)
	if h == 0 {
		return nil, fmt.Errorf("querying %s log on %s: %w", f.LogName, host, callErr)
	}
	defer procEvtClose.Call(h)

	var events []*winevent.Event
	handles := make([]uintptr, s.batchSize)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var returned uint32
		r, _, callErr := procEvtNext.Call(
			h,
			uintptr(len(handles)),
			uintptr(unsafe.Pointer(&handles[0])),
			windows.INFINITE,
			0,
			uintptr(unsafe.Pointer(&returned)),
		)
		if r == 0 {
			if errno, ok := callErr.(syscall.Errno); ok && errno == errNoMoreItems {
				break
			}
			return nil, fmt.Errorf("reading events: %w", callErr)
		}

		for _, eh := range handles[:returned] {
			ev, renderErr := renderEvent(eh)
			procEvtClose.Call(eh)
			if renderErr != nil {
				return nil, renderErr
			}
			events = append(events, ev)
		}
	}

	return events, nil
}

// openSession opens a remote RPC session, or returns 0 for the local
// machine (EvtQuery treats a null session as local).
func openSession(host string) (uintptr, error) {
	if host == "" || host == "localhost" || host == "." {
		return 0, nil
	}

	server, err := syscall.UTF16PtrFromString(host)
	if err != nil {
		return 0, fmt.Errorf("encoding host name: %w", err)
	}
	login := evtRPCLoginStruct{Server: server}

	h, _, callErr := procEvtOpen.Call(
		evtRPCLogin,
		uintptr(unsafe.Pointer(&login)),
		0,
		0,
	)
	if h == 0 {
		return 0, fmt.Errorf("opening session to %s: %w", host, callErr)
	}
	return h, nil
}

// renderEvent renders one event handle as XML and parses it, growing
// the buffer once if the first call reports it was too small.
func renderEvent(h uintptr) (*winevent.Event, error) {
	var bufUsed, propCount uint32
	buf := make([]uint16, 4096)

	r, _, callErr := procEvtRender.Call(
		0,
		h,
		evtRenderEventXML,
		uintptr(len(buf)*2),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(unsafe.Pointer(&bufUsed)),
		uintptr(unsafe.Pointer(&propCount)),
	)
	if r == 0 {
		errno, ok := callErr.(syscall.Errno)
		if !ok || errno != errInsufficientBuffer {
			return nil, fmt.Errorf("rendering event: %w", callErr)
		}
		buf = make([]uint16, (bufUsed+1)/2)
		r, _, callErr = procEvtRender.Call(
			0,
			h,
			evtRenderEventXML,
			uintptr(len(buf)*2),
			uintptr(unsafe.Pointer(&buf[0])),
			uintptr(unsafe.Pointer(&bufUsed)),
			uintptr(unsafe.Pointer(&propCount)),
		)
		if r == 0 {
			return nil, fmt.Errorf("rendering event: %w", callErr)
		}
	}

	n := int(bufUsed / 2)
	if n > len(buf) {
		n = len(buf)
	}
	// bufUsed includes the trailing NUL
	for n > 0 && buf[n-1] == 0 {
		n--
	}
	raw := string(utf16.Decode(buf[:n]))

	var ev winevent.Event
	if err := xml.Unmarshal([]byte(raw), &ev); err != nil {
		return nil, fmt.Errorf("parsing rendered event: %w", err)
	}
	return &ev, nil
}
