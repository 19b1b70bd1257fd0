// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc_test

import (
	"errors"
	"fmt"

	"code.hybscloud.com/spsc"
)

// ExampleNewCore demonstrates the basic split and push/pop cycle.
func ExampleNewCore() {
	// 8 slots, up to 7 items
	core, err := spsc.NewCore[int](8)
	if err != nil {
		panic(err)
	}
	producer, consumer := core.Split()

	for i := 1; i <= 5; i++ {
		producer.Push(i * 10)
	}

	for range 5 {
		v, _ := consumer.Pop()
		fmt.Println(v)
	}

	// Output:
	// 10
	// 20
	// 30
	// 40
	// 50
}

// ExampleNewCore_invalidCapacity shows the error returned for a capacity
// that is not a power of 2.
func ExampleNewCore_invalidCapacity() {
	_, err := spsc.NewCore[int](6)
	fmt.Println(err)

	var cfg *spsc.ConfigError
	fmt.Println(errors.As(err, &cfg), errors.Is(err, spsc.ErrConfig))

	// Output:
	// spsc: invalid capacity 6: must be a power of 2
	// true true
}

// ExampleProducer_TryPush demonstrates backpressure on a full queue.
func ExampleProducer_TryPush() {
	core := spsc.MustNewCore[string](4)
	producer, consumer := core.Split()

	for _, s := range []string{"a", "b", "c", "d"} {
		if err := producer.TryPush(s); err != nil {
			fmt.Println(s, "rejected:", spsc.IsWouldBlock(err))
			continue
		}
		fmt.Println(s, "queued")
	}
	fmt.Println("len:", consumer.Len())

	// Output:
	// a queued
	// b queued
	// c queued
	// d rejected: true
	// len: 3
}

// ExampleBuild demonstrates builder options.
func ExampleBuild() {
	// 1000 rounds up to 1024 slots; Push/Pop never spin
	core, err := spsc.Build[int](spsc.New(1000).RoundUp().NoSpin())
	if err != nil {
		panic(err)
	}
	fmt.Println("cap:", core.Cap())

	// Output:
	// cap: 1023
}

// ExampleConsumer_PopBatch demonstrates batched transfer.
func ExampleConsumer_PopBatch() {
	producer, consumer := spsc.MustNewCore[int](16).Split()

	n := producer.PushBatch([]int{1, 2, 3, 4, 5, 6})
	fmt.Println("pushed:", n)

	fmt.Println(consumer.PopBatch(4))
	fmt.Println(consumer.PopBatch(4))
	fmt.Println(consumer.PopBatch(4))

	// Output:
	// pushed: 6
	// [1 2 3 4]
	// [5 6]
	// []
}

// ExampleConsumer_Drain demonstrates releasing items still queued when the
// consumer shuts down.
func ExampleConsumer_Drain() {
	type conn struct{ id int }
	producer, consumer := spsc.MustNewCore[*conn](8).Split()

	for i := range 3 {
		producer.Push(&conn{id: i})
	}

	n := consumer.Drain(func(c *conn) {
		fmt.Println("close", c.id)
	})
	fmt.Println("released:", n)

	// Output:
	// close 0
	// close 1
	// close 2
	// released: 3
}
