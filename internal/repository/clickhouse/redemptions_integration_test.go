package clickhouse

import (
	"time"

	"github.com/golang/mock/gomock"
	"github.com/goodnatureofminers/onclick-backend/internal/model"
	"github.com/google/uuid"
)

func newRedemption(token, recipient string, status model.RedemptionStatus, at time.Time) model.Redemption {
	return model.Redemption{
		ID:        uuid.New(),
		Network:   1,
		Contract:  "0x4185C4AEB90D93Da5b3Bb865947E40Ea7A192d21",
		Token:     token,
		Recipient: recipient,
		Clicks:    2,
		Amount:    "2000000000000000000",
		Status:    status,
		CreatedAt: at,
	}
}

func (s *RepositorySuite) TestInsertRedemptions() {
	now := time.Now().UTC().Truncate(time.Millisecond)
	rows := []model.Redemption{
		newRedemption("aa", "0xA1", model.RedemptionFailed, now),
		newRedemption("aa", "0xA1", model.RedemptionRedeemed, now.Add(time.Second)),
	}

	s.metrics.EXPECT().Observe("insert_redemptions", model.NetworkID(1), gomock.Nil(), gomock.Any()).Times(1)

	s.Require().NoError(s.repo.InsertRedemptions(s.testCtx, rows))
	s.Equal(uint64(len(rows)), s.countRows("claim_redemptions"))
}

func (s *RepositorySuite) TestRedemptionsFiltersNewestFirst() {
	now := time.Now().UTC().Truncate(time.Millisecond)
	failed := newRedemption("aa", "0xA1", model.RedemptionFailed, now)
	redeemed := newRedemption("aa", "0xA1", model.RedemptionRedeemed, now.Add(time.Second))
	other := newRedemption("bb", "0xB2", model.RedemptionAlreadyClaimed, now.Add(2*time.Second))

	s.metrics.EXPECT().Observe("insert_redemptions", model.NetworkID(1), gomock.Nil(), gomock.Any()).Times(1)
	s.metrics.EXPECT().Observe("redemptions", model.NetworkID(0), gomock.Nil(), gomock.Any()).Times(4)

	s.Require().NoError(s.repo.InsertRedemptions(s.testCtx, []model.Redemption{failed, redeemed, other}))

	byToken, err := s.repo.Redemptions(s.testCtx, model.RedemptionFilter{Token: "0xaa"})
	s.Require().NoError(err)
	s.Require().Len(byToken, 2)
	s.Equal(redeemed.ID, byToken[0].ID)
	s.Equal(model.RedemptionRedeemed, byToken[0].Status)
	s.Equal(failed.ID, byToken[1].ID)
	s.True(redeemed.CreatedAt.Equal(byToken[0].CreatedAt))

	byRecipient, err := s.repo.Redemptions(s.testCtx, model.RedemptionFilter{Recipient: "0xB2"})
	s.Require().NoError(err)
	s.Require().Len(byRecipient, 1)
	s.Equal(other.ID, byRecipient[0].ID)
	s.Equal(model.NetworkID(1), byRecipient[0].Network)

	all, err := s.repo.Redemptions(s.testCtx, model.RedemptionFilter{})
	s.Require().NoError(err)
	s.Len(all, 3)

	limited, err := s.repo.Redemptions(s.testCtx, model.RedemptionFilter{Limit: 1})
	s.Require().NoError(err)
	s.Require().Len(limited, 1)
	s.Equal(other.ID, limited[0].ID)
}
