package queue_test

import (
	"context"
	"testing"

	"github.com/okian/fetalbio/internal/adapters/mq/queue"
	"github.com/okian/fetalbio/internal/domain/gestage"
	"github.com/okian/fetalbio/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func sample(id string) queue.Measurement {
	ga, _ := gestage.New(20, 6)
	return queue.Measurement{ID: id, Type: types.BiparietalDiameter, Age: ga, ValueMM: 155.0}
}

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a queue with capacity two", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))
		ctx := context.Background()

		Convey("When enqueuing within capacity", func() {
			So(q.Enqueue(ctx, sample("a")), ShouldBeTrue)
			So(q.Enqueue(ctx, sample("b")), ShouldBeTrue)
			So(q.Len(ctx), ShouldEqual, 2)

			Convey("Then a third enqueue is rejected without blocking", func() {
				So(q.Enqueue(ctx, sample("c")), ShouldBeFalse)
			})

			Convey("Then dequeue yields measurements in order", func() {
				m := <-q.Dequeue(ctx)
				So(m.ID, ShouldEqual, "a")
				m = <-q.Dequeue(ctx)
				So(m.ID, ShouldEqual, "b")
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Enqueue(ctx, sample("a")), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)

			Convey("Then further enqueues are rejected", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, sample("b")), ShouldBeFalse)
			})

			Convey("Then queued items drain before the channel closes", func() {
				m, ok := <-q.Dequeue(ctx)
				So(ok, ShouldBeTrue)
				So(m.ID, ShouldEqual, "a")
				_, ok = <-q.Dequeue(ctx)
				So(ok, ShouldBeFalse)
			})

			Convey("Then closing twice reports the sentinel", func() {
				So(q.Close(), ShouldEqual, queue.ErrQueueClosed)
			})
		})
	})
}
