// A newline-delimited TCP log collector: the remote end of a
// forwarder. Each received line is printed to stdout prefixed with the
// peer address. Useful as a local sink for the other cmd programs.
package main

import (
	"bytes"
	"flag"
	"fmt"

	"github.com/panjf2000/gnet/v2"
)

type collector struct {
	gnet.BuiltinEventEngine

	addr string
}

func (cs *collector) OnBoot(eng gnet.Engine) gnet.Action {
	fmt.Printf("collector listening on %s\n", cs.addr)
	return gnet.None
}

func (cs *collector) OnOpen(c gnet.Conn) ([]byte, gnet.Action) {
	fmt.Printf("forwarder connected: %s\n", c.RemoteAddr())
	return nil, gnet.None
}

func (cs *collector) OnClose(c gnet.Conn, err error) gnet.Action {
	if err != nil {
		fmt.Printf("forwarder disconnected: %s (%v)\n", c.RemoteAddr(), err)
	} else {
		fmt.Printf("forwarder disconnected: %s\n", c.RemoteAddr())
	}
	return gnet.None
}

func (cs *collector) OnTraffic(c gnet.Conn) gnet.Action {
	buf, err := c.Next(-1)
	if err != nil || len(buf) == 0 {
		return gnet.None
	}
	for _, record := range bytes.Split(buf, []byte{'\n'}) {
		if len(record) == 0 {
			continue
		}
		fmt.Printf("%s> %s\n", c.RemoteAddr(), record)
	}
	return gnet.None
}

func main() {
	port := flag.Int("port", 9000, "listen port")
	flag.Parse()

	addr := fmt.Sprintf("tcp://127.0.0.1:%d", *port)
	cs := &collector{addr: addr}

	if err := gnet.Run(cs, addr, gnet.WithMulticore(false)); err != nil {
		panic(err)
	}
}
