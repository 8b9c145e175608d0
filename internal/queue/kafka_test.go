package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fakenews/internal/domain"
)

func TestKafkaPublish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var a domain.Article
		if err := json.Unmarshal(val, &a); err != nil {
			return err
		}
		if a.ID != "a1" || a.Title != "Headline" {
			return fmt.Errorf("unexpected article: %+v", a)
		}
		return nil
	})

	k := NewKafkaWithProducer(producer, "articles")

	require.NoError(t, k.Publish(context.Background(), domain.Article{ID: "a1", Title: "Headline"}))
	require.NoError(t, k.Close())
}

func TestKafkaPublish_Error(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	k := NewKafkaWithProducer(producer, "articles")

	assert.ErrorIs(t, k.Publish(context.Background(), domain.Article{ID: "a1"}), sarama.ErrOutOfBrokers)
	require.NoError(t, k.Close())
}

type fakeSession struct {
	ctx    context.Context
	marked []int64
}

func (s *fakeSession) Claims() map[string][]int32                        { return nil }
func (s *fakeSession) MemberID() string                                  { return "m" }
func (s *fakeSession) GenerationID() int32                               { return 1 }
func (s *fakeSession) MarkOffset(string, int32, int64, string)           {}
func (s *fakeSession) Commit()                                           {}
func (s *fakeSession) ResetOffset(string, int32, int64, string)          {}
func (s *fakeSession) Context() context.Context                          { return s.ctx }
func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) { s.marked = append(s.marked, msg.Offset) }

type fakeClaim struct {
	ch chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Topic() string                            { return "articles" }
func (c *fakeClaim) Partition() int32                         { return 0 }
func (c *fakeClaim) InitialOffset() int64                     { return 0 }
func (c *fakeClaim) HighWaterMarkOffset() int64               { return 0 }
func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.ch }

func TestConsumeClaim(t *testing.T) {
	good, _ := json.Marshal(domain.Article{ID: "ok"})
	bad, _ := json.Marshal(domain.Article{ID: "retry"})

	claim := &fakeClaim{ch: make(chan *sarama.ConsumerMessage, 3)}
	claim.ch <- &sarama.ConsumerMessage{Offset: 1, Value: good}
	claim.ch <- &sarama.ConsumerMessage{Offset: 2, Value: []byte("{not json")}
	claim.ch <- &sarama.ConsumerMessage{Offset: 3, Value: bad}
	close(claim.ch)

	var handled []string
	c := &KafkaConsumer{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		handler: func(ctx context.Context, a domain.Article) error {
			handled = append(handled, a.ID)
			if a.ID == "retry" {
				return errors.New("transient")
			}
			return nil
		},
	}
	session := &fakeSession{ctx: context.Background()}

	require.NoError(t, c.ConsumeClaim(session, claim))

	assert.Equal(t, []string{"ok", "retry"}, handled)
	assert.Equal(t, []int64{1, 2}, session.marked)
}
