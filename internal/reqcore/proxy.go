package reqcore

import (
	"encoding/binary"
	"net"
)

// proxyTagV1 is "PROX" (the start of "PROXY ") in little-endian tag form.
var proxyTagV1 = tag4('P', 'R', 'O', 'X')

// proxyTagV2 is "\r\n\r\n", the start of the PROXY-protocol v2 binary
// signature, in little-endian tag form.
var proxyTagV2 = tag4('\r', '\n', '\r', '\n')

// proxyV2Signature is the full 12-byte PROXY-protocol v2 signature.
var proxyV2Signature = [12]byte{0x0D, 0x0A, 0x0D, 0x0A, 0x00, 0x0D, 0x0A, 0x51, 0x55, 0x49, 0x54, 0x0A}

const (
	proxyV2CmdLocal = 0x20
	proxyV2CmdProxy = 0x21
	proxyV2FamTCP4  = 0x11
	proxyV2FamTCP6  = 0x21

	proxyV1MaxLine = 108
	proxyV2HeaderFixedLen = 16
	proxyV2MaxPayload     = 232 // keeps the v1/v2 union footprint bounded, as in lwan's union proxy_protocol_header
)

// ProxyFamily mirrors the subset of address families PROXY-protocol can
// carry: IPv4, IPv6, or unspecified (PROXYv2 LOCAL connections).
type ProxyFamily uint8

const (
	ProxyFamilyUnspec ProxyFamily = iota
	ProxyFamilyInet
	ProxyFamilyInet6
)

// ProxyAddr is one endpoint (source or destination) of a proxied
// connection.
type ProxyAddr struct {
	Family ProxyFamily
	IP     net.IP
	Port   uint16
}

// ProxyInfo holds the two endpoints PROXY-protocol conveys: the original
// client ("from"/src) and the proxy's own listening address ("to"/dst).
type ProxyInfo struct {
	From ProxyAddr
	To   ProxyAddr
}

// parseProxyProtocol detects and consumes a PROXY-protocol v1 or v2
// preamble at the start of buf. It returns the number of bytes consumed
// (0 if no preamble was present — buf is left untouched) and ok=false
// only when a preamble was detected but malformed (a hard parse error
// per spec.md §4.C). Callers must have at least 4 bytes in buf before
// calling, matching lwan's STRING_SWITCH dispatch on the first 4 bytes.
func parseProxyProtocol(buf []byte, info *ProxyInfo) (consumed int, ok bool) {
	if len(buf) < 4 {
		return 0, true
	}

	switch {
	case match4(buf, proxyTagV1):
		return parseProxyV1(buf, info)
	case match4(buf, proxyTagV2):
		return parseProxyV2(buf, info)
	default:
		return 0, true
	}
}

func parseProxyV1(buf []byte, info *ProxyInfo) (int, bool) {
	limit := len(buf)
	if limit > proxyV1MaxLine {
		limit = proxyV1MaxLine
	}

	crlf := -1
	for i := 0; i+1 < limit; i++ {
		if buf[i] == '\r' && buf[i+1] == '\n' {
			crlf = i
			break
		}
	}
	if crlf == -1 {
		return 0, false
	}

	line := buf[:crlf]
	consumed := crlf + 2

	fields := splitSpaces(line, 6)
	if len(fields) != 6 {
		return 0, false
	}
	// fields[0] is the literal "PROXY"
	protocol := fields[1]
	srcAddr := string(fields[2])
	dstAddr := string(fields[3])

	srcPort, ok := parseASCIIPort(fields[4])
	if !ok {
		return 0, false
	}
	dstPort, ok := parseASCIIPort(fields[5])
	if !ok {
		return 0, false
	}

	switch {
	case len(protocol) == 4 && match4(protocol, tag4('T', 'C', 'P', '4')):
		srcIP := net.ParseIP(srcAddr).To4()
		dstIP := net.ParseIP(dstAddr).To4()
		if srcIP == nil || dstIP == nil {
			return 0, false
		}
		info.From = ProxyAddr{Family: ProxyFamilyInet, IP: srcIP, Port: srcPort}
		info.To = ProxyAddr{Family: ProxyFamilyInet, IP: dstIP, Port: dstPort}
	case len(protocol) == 4 && match4(protocol, tag4('T', 'C', 'P', '6')):
		srcIP := net.ParseIP(srcAddr)
		dstIP := net.ParseIP(dstAddr)
		if srcIP == nil || dstIP == nil {
			return 0, false
		}
		info.From = ProxyAddr{Family: ProxyFamilyInet6, IP: srcIP, Port: srcPort}
		info.To = ProxyAddr{Family: ProxyFamilyInet6, IP: dstIP, Port: dstPort}
	default:
		return 0, false
	}

	return consumed, true
}

// splitSpaces splits line on single-space delimiters, returning at most
// max fields (the last field may itself still contain further content if
// more delimiters than max-1 exist — lwan's strsep_char chain has exactly
// six tokens so this never matters in practice).
func splitSpaces(line []byte, max int) [][]byte {
	fields := make([][]byte, 0, max)
	start := 0
	for i := 0; i < len(line) && len(fields) < max-1; i++ {
		if line[i] == ' ' {
			fields = append(fields, line[start:i])
			start = i + 1
		}
	}
	fields = append(fields, line[start:])
	return fields
}

func parseASCIIPort(b []byte) (uint16, bool) {
	if len(b) == 0 || len(b) > 5 {
		return 0, false
	}
	var v uint32
	for _, ch := range b {
		if ch < '0' || ch > '9' {
			return 0, false
		}
		v = v*10 + uint32(ch-'0')
		if v > 0xFFFF {
			return 0, false
		}
	}
	return uint16(v), true
}

func parseProxyV2(buf []byte, info *ProxyInfo) (int, bool) {
	if len(buf) < proxyV2HeaderFixedLen {
		return 0, false
	}
	for i := 0; i < 12; i++ {
		if buf[i] != proxyV2Signature[i] {
			return 0, false
		}
	}

	cmdVer := buf[12]
	fam := buf[13]
	payloadLen := int(binary.BigEndian.Uint16(buf[14:16]))
	total := proxyV2HeaderFixedLen + payloadLen
	if total > proxyV2MaxPayload || total > len(buf) {
		return 0, false
	}

	payload := buf[proxyV2HeaderFixedLen:total]

	switch cmdVer {
	case proxyV2CmdLocal:
		info.From = ProxyAddr{Family: ProxyFamilyUnspec}
		info.To = ProxyAddr{Family: ProxyFamilyUnspec}
	case proxyV2CmdProxy:
		switch fam {
		case proxyV2FamTCP4:
			if len(payload) < 12 {
				return 0, false
			}
			info.From = ProxyAddr{Family: ProxyFamilyInet, IP: net.IP(append([]byte(nil), payload[0:4]...)), Port: binary.BigEndian.Uint16(payload[8:10])}
			info.To = ProxyAddr{Family: ProxyFamilyInet, IP: net.IP(append([]byte(nil), payload[4:8]...)), Port: binary.BigEndian.Uint16(payload[10:12])}
		case proxyV2FamTCP6:
			if len(payload) < 36 {
				return 0, false
			}
			info.From = ProxyAddr{Family: ProxyFamilyInet6, IP: net.IP(append([]byte(nil), payload[0:16]...)), Port: binary.BigEndian.Uint16(payload[32:34])}
			info.To = ProxyAddr{Family: ProxyFamilyInet6, IP: net.IP(append([]byte(nil), payload[16:32]...)), Port: binary.BigEndian.Uint16(payload[34:36])}
		default:
			return 0, false
		}
	default:
		return 0, false
	}

	return total, true
}
