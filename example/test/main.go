package main

import (
	"context"
	"fmt"
	"time"

	txrx "github.com/jonoton/go-txrx"
	"go.uber.org/zap"
)

type chatMessage struct {
	From string
	Text string
}

func main() {
	logger, _ := zap.NewDevelopment()
	txrx.SetLogger(logger) // watch subscribe/delivery activity

	ch := txrx.NewChannel()
	defer ch.Close()
	tx, rx := ch.Tx(), ch.Rx()

	fmt.Println("--- Lifetime policies ---")

	// Persistent: fires for every send until removed.
	persistent := rx.On("chat", txrx.NewListener(func(data any) error {
		fmt.Printf("(persistent) %v\n", data)
		return nil
	}))

	// One-shot: fires for the first send only.
	rx.Once("chat", txrx.NewListener(func(data any) error {
		fmt.Printf("(once) %v\n", data)
		return nil
	}))

	// Weak: fires while the handle's referent is alive.
	weakListener := txrx.NewListener(func(data any) error {
		fmt.Printf("(weak) %v\n", data)
		return nil
	})
	handle := rx.OnWeak("chat", weakListener)

	tx.Send("chat", "hello")   // all three
	tx.Send("chat", "again")   // persistent + weak
	handle.Release()           // owner drops the weak listener
	tx.Send("chat", "goodbye") // persistent only; weak entry evicted

	fmt.Println("topics:", ch.Messages())
	rx.Off("chat", persistent)
	fmt.Println("topics after Off:", ch.Messages())

	fmt.Println("--- Deferred emission ---")

	rx.On("jobs", txrx.NewListener(func(data any) error {
		fmt.Printf("(deferred) %v\n", data)
		return nil
	}))
	fut := tx.SendAsync("jobs", "job-42 done")
	fmt.Println("SendAsync returned; send has not run on this stack")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	delivered, err := fut.Wait(ctx)
	fmt.Printf("future resolved: delivered=%v err=%v\n", delivered, err)

	fmt.Println("--- Typed topics ---")

	if err := txrx.RegisterTopic[chatMessage](ch, "chat.typed"); err != nil {
		panic(err)
	}
	if _, err := txrx.On(rx, "chat.typed", func(m chatMessage) error {
		fmt.Printf("(typed) %s: %s\n", m.From, m.Text)
		return nil
	}); err != nil {
		panic(err)
	}
	if _, err := txrx.Send(tx, "chat.typed", chatMessage{From: "alice", Text: "hi"}); err != nil {
		panic(err)
	}
	// A payload of the wrong type never reaches the topic.
	if _, err := txrx.Send(tx, "chat.typed", 42); err != nil {
		fmt.Println("rejected:", err)
	}

	fmt.Println("--- Host association ---")

	type conn struct{ id int }
	c := &conn{id: 7}

	cm := txrx.NewChannelMap()
	cm.Add(c)
	cm.Add(c) // idempotent
	if hostCh, ok := cm.Get(c); ok {
		hostCh.Rx().On("closed", txrx.NewListener(func(any) error {
			fmt.Printf("conn %d closed\n", c.id)
			return nil
		}))
		hostCh.Tx().Send("closed", nil)
	}
	cm.Remove(c)
	fmt.Println("associations left:", cm.Len())
}
