package service

import (
	"context"
	"errors"
	"fmt"

	"go-studio-booking/internal/model"
)

type TeacherService struct {
	teachers TeacherStore
}

func NewTeacherService(teachers TeacherStore) *TeacherService {
	return &TeacherService{teachers: teachers}
}

func (s *TeacherService) FindAll(ctx context.Context) ([]model.Teacher, error) {
	teachers, err := s.teachers.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

func (s *TeacherService) FindByID(ctx context.Context, id int64) (model.Teacher, error) {
	teacher, err := s.teachers.FindByID(ctx, id)
	if errors.Is(err, model.ErrTeacherNotFound) {
		return model.Teacher{}, errTeacherNotFound(id)
	}
	if err != nil {
		return model.Teacher{}, fmt.Errorf("find teacher: %w", err)
	}
	return teacher, nil
}
