package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"clubhub/internal/core/domain"
)

func idParam(c *fiber.Ctx, name string) (uint, error) {
	return parseID(c.Params(name), name)
}

func parseID(raw, name string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, domain.InvalidInputf("invalid %s", name)
	}
	return uint(id), nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domain.InvalidInputf("invalid request body")
	}
	return nil
}

func parseRecruitmentStatus(s string) (domain.RecruitmentStatus, error) {
	for _, st := range []domain.RecruitmentStatus{
		domain.RecruitmentDraft,
		domain.RecruitmentOpen,
		domain.RecruitmentClosed,
		domain.RecruitmentCancelled,
	} {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, domain.InvalidInputf("unknown recruitment status %q", s)
}

func parseInterviewResult(s string) (domain.InterviewResult, error) {
	switch s {
	case "pass":
		return domain.InterviewPass, nil
	case "fail":
		return domain.InterviewFail, nil
	}
	return 0, domain.InvalidInputf("result must be pass or fail")
}
