package tagging

import (
	"context"
	"errors"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/user/touch-ref-logger/eventlog"
)

func TestSessionHandle(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a session with referee Sam on hotkey a", t, func() {
		m := newTouchMachine(t)
		s := NewSession(m, nil)
		convey.So(s.SetRefereeName('a', "Sam"), convey.ShouldBeNil)
		var seq Sequencer

		convey.Convey("When Sam is selected and hotkey 1 is pressed at 125s", func() {
			s.Handle(ctx, seq.Next('a'))
			s.SetPosition(125)
			out := s.Handle(ctx, seq.Next('1'))

			convey.Convey("Then the log holds one entry stamped 00:02:05", func() {
				convey.So(out.Kind, convey.ShouldEqual, OutcomeLogged)
				convey.So(out.Index, convey.ShouldEqual, 0)
				convey.So(s.Log().Entries(), convey.ShouldResemble, []eventlog.Entry{
					{Timestamp: "00:02:05", Event: "Short 7M", Referee: "Sam"},
				})
			})
		})

		convey.Convey("When a referee is selected and N events follow", func() {
			s.Handle(ctx, seq.Next('a'))
			keys := []rune{'1', '4', '4', '9', '2'}
			for _, k := range keys {
				s.Handle(ctx, seq.Next(k))
			}

			convey.Convey("Then exactly N entries are tagged with that referee", func() {
				entries := s.Log().Entries()
				convey.So(len(entries), convey.ShouldEqual, len(keys))
				for _, e := range entries {
					convey.So(e.Referee, convey.ShouldEqual, "Sam")
				}
			})
		})

		convey.Convey("When a pasted description carries CRLF line breaks", func() {
			s.Handle(ctx, seq.Next('a'))
			s.SetDescription("late\r\nwhistle\r")
			out := s.Handle(ctx, seq.Next('1'))

			convey.Convey("Then the entry stores LF breaks, as it reads back from CSV", func() {
				convey.So(out.Entry.Description, convey.ShouldEqual, "late\nwhistle\n")
				convey.So(s.Log().Entries()[0], convey.ShouldResemble, out.Entry)
			})
		})

		convey.Convey("When an event is pressed with no referee selected", func() {
			before := s.State()
			out := s.Handle(ctx, seq.Next('5'))

			convey.Convey("Then the log and state are unchanged", func() {
				convey.So(out.Kind, convey.ShouldEqual, OutcomeRejected)
				convey.So(out.Notice, convey.ShouldNotBeEmpty)
				convey.So(s.Log().Len(), convey.ShouldEqual, 0)
				convey.So(s.State(), convey.ShouldResemble, before)
			})
		})

		convey.Convey("When a token is redelivered", func() {
			s.Handle(ctx, seq.Next('a'))
			in := seq.Next('2')
			s.Handle(ctx, in)
			out := s.Handle(ctx, in)

			convey.Convey("Then the log length does not change", func() {
				convey.So(out.Kind, convey.ShouldEqual, OutcomeDuplicate)
				convey.So(s.Log().Len(), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When a description is staged", func() {
			s.Handle(ctx, seq.Next('a'))
			s.SetDescription("late call, near sideline")
			s.Handle(ctx, seq.Next('8'))
			s.Handle(ctx, seq.Next('8'))

			convey.Convey("Then only the next entry carries it", func() {
				entries := s.Log().Entries()
				convey.So(entries[0].Description, convey.ShouldEqual, "late call, near sideline")
				convey.So(entries[1].Description, convey.ShouldBeEmpty)
				convey.So(s.PendingDescription(), convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When a referee is renamed after logging", func() {
			s.Handle(ctx, seq.Next('a'))
			s.Handle(ctx, seq.Next('1'))
			convey.So(s.SetRefereeName('a', "Samira"), convey.ShouldBeNil)
			s.Handle(ctx, seq.Next('1'))

			convey.Convey("Then earlier entries keep the old name", func() {
				entries := s.Log().Entries()
				convey.So(entries[0].Referee, convey.ShouldEqual, "Sam")
				convey.So(entries[1].Referee, convey.ShouldEqual, "Samira")
				ref, ok := s.ActiveReferee()
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(ref.Name, convey.ShouldEqual, "Samira")
			})
		})

		convey.Convey("When the position sample is invalid", func() {
			s.SetPosition(-3)

			convey.Convey("Then it clamps to zero", func() {
				convey.So(s.Position(), convey.ShouldEqual, 0.0)
			})
		})
	})
}

func TestSessionObservers(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a session with a failing and a recording observer", t, func() {
		s := NewSession(newTouchMachine(t), eventlog.New())
		var seen []OutcomeKind
		s.AddObserver(ObserverFunc(func(_ context.Context, out Outcome) error {
			seen = append(seen, out.Kind)
			return nil
		}))
		boom := errors.New("disk full")
		s.AddObserver(ObserverFunc(func(_ context.Context, out Outcome) error {
			if out.Kind == OutcomeLogged {
				return boom
			}
			return nil
		}))
		var seq Sequencer

		convey.Convey("When inputs are handled", func() {
			s.Handle(ctx, seq.Next('x'))
			s.Handle(ctx, seq.Next('d'))
			out := s.Handle(ctx, seq.Next('7'))

			convey.Convey("Then observers see every outcome, ignored keys included", func() {
				convey.So(seen, convey.ShouldResemble, []OutcomeKind{OutcomeIgnored, OutcomeRefereeSelected, OutcomeLogged})
			})

			convey.Convey("And the observer error is reported without dropping the entry", func() {
				convey.So(errors.Is(out.ObserverErr, boom), convey.ShouldBeTrue)
				convey.So(s.Log().Len(), convey.ShouldEqual, 1)
				convey.So(out.SessionID, convey.ShouldEqual, s.ID())
			})
		})
	})
}
