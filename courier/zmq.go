// SPDX-License-Identifier: ISC
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package courier

import (
	"encoding/json"
	"time"

	"github.com/bitmark-inc/logger"
	zmq "github.com/pebbe/zmq4"

	"github.com/thorgilman/corda-reissuance-automation/fault"
	"github.com/thorgilman/corda-reissuance-automation/ledger"
)

const (
	sendTimeout = 5 * time.Second
	recvTimeout = 200 * time.Millisecond
	lingerTime  = 100 * time.Millisecond
)

// wire form of one transmission
type parcel struct {
	From         string                `json:"from"`
	Transactions []*ledger.Transaction `json:"transactions"`
}

// ZMQ - courier delivering over ZeroMQ push sockets
//
// each party's node binds one pull socket; peers are a static
// name to endpoint map from configuration
type ZMQ struct {
	log      *logger.L
	identity ledger.Party
	peers    map[string]string
}

// NewZMQ - create the sending half
func NewZMQ(identity ledger.Party, peers map[string]string) *ZMQ {
	return &ZMQ{
		log:      logger.New("courier"),
		identity: identity,
		peers:    peers,
	}
}

// Send - deliver transactions to the named party's pull socket
func (z *ZMQ) Send(to ledger.Party, txs []*ledger.Transaction) error {

	endpoint, ok := z.peers[to.Name]
	if !ok {
		return fault.ErrCounterpartyUnreachable
	}

	data, err := json.Marshal(parcel{
		From:         z.identity.Name,
		Transactions: txs,
	})
	if nil != err {
		return err
	}

	socket, err := zmq.NewSocket(zmq.PUSH)
	if nil != err {
		return err
	}
	defer socket.Close()

	_ = socket.SetLinger(lingerTime)
	_ = socket.SetSndtimeo(sendTimeout)

	if err := socket.Connect(endpoint); nil != err {
		z.log.Warnf("connect to %q failed: %s", endpoint, err)
		return fault.ErrCounterpartyUnreachable
	}

	if _, err := socket.SendBytes(data, 0); nil != err {
		z.log.Warnf("send to %q failed: %s", endpoint, err)
		return fault.ErrCounterpartyUnreachable
	}

	z.log.Infof("sent %d transactions to: %s", len(txs), to)
	return nil
}

// Listener - the receiving half, run as a background process
type Listener struct {
	log      *logger.L
	listen   string
	receiver Receiver
}

// NewListener - bind the pull socket for incoming parcels
func NewListener(listen string, receiver Receiver) *Listener {
	return &Listener{
		log:      logger.New("courier-listen"),
		listen:   listen,
		receiver: receiver,
	}
}

// Run - receive loop, compatible with the background package
func (l *Listener) Run(args interface{}, shutdown <-chan struct{}) {

	log := l.log
	log.Info("starting…")

	socket, err := zmq.NewSocket(zmq.PULL)
	if nil != err {
		log.Criticalf("socket create failed: %s", err)
		return
	}
	defer socket.Close()

	_ = socket.SetLinger(lingerTime)
	_ = socket.SetRcvtimeo(recvTimeout)

	if err := socket.Bind(l.listen); nil != err {
		log.Criticalf("bind %q failed: %s", l.listen, err)
		return
	}

loop:
	for {
		select {
		case <-shutdown:
			break loop
		default:
		}

		data, err := socket.RecvBytes(0)
		if nil != err {
			continue loop // timeout or transient error, recheck shutdown
		}

		p := parcel{}
		if err := json.Unmarshal(data, &p); nil != err {
			log.Warnf("discard undecodable parcel: %s", err)
			continue loop
		}

		log.Infof("received %d transactions from: %s", len(p.Transactions), p.From)
		l.receiver.ReceiveTransactions(p.Transactions)
	}

	log.Info("finished")
}
