package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"clubhub/internal/core/domain"
)

var (
	_ AccountRepository     = (*accountRepository)(nil)
	_ GraphRepository       = (*graphRepository)(nil)
	_ ClubRepository        = (*clubRepository)(nil)
	_ RecruitmentRepository = (*recruitmentRepository)(nil)
	_ ApplicationRepository = (*applicationRepository)(nil)
	_ InterviewRepository   = (*interviewRepository)(nil)
	_ UnitOfWork            = (*gormUnitOfWork)(nil)
)

func TestTranslate(t *testing.T) {
	boom := errors.New("connection reset")

	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"record not found", gorm.ErrRecordNotFound, domain.ErrNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", gorm.ErrRecordNotFound), domain.ErrNotFound},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, domain.ErrConflict},
		{"mysql duplicate entry", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, domain.ErrConflict},
		{"postgres unique violation", &pgconn.PgError{Code: "23505"}, domain.ErrConflict},
		{"mysql other", &mysql.MySQLError{Number: 1213}, nil},
		{"other", boom, boom},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := translate(tc.in)
			switch {
			case tc.in == nil:
				assert.NoError(t, got)
			case tc.want == nil:
				assert.Equal(t, tc.in, got)
			default:
				assert.ErrorIs(t, got, tc.want)
			}
		})
	}
}
