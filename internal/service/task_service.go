package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fruta004-ux/olens-crm-api/internal/domain"
	"github.com/fruta004-ux/olens-crm-api/internal/mapper"
	"github.com/fruta004-ux/olens-crm-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TaskService struct {
	taskRepo *repository.TaskRepository
	userRepo *repository.UserRepository
	logger   *zap.Logger
}

func NewTaskService(taskRepo *repository.TaskRepository, userRepo *repository.UserRepository, logger *zap.Logger) *TaskService {
	return &TaskService{taskRepo: taskRepo, userRepo: userRepo, logger: logger}
}

func (s *TaskService) Create(ctx context.Context, req *domain.CreateTaskRequest) (*domain.TaskDTO, error) {
	priority := req.Priority
	if priority == "" {
		priority = domain.TaskPriorityNormal
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("%w: invalid priority %s", ErrInvalidInput, priority)
	}

	task := &domain.Task{
		Title:      req.Title,
		Body:       req.Body,
		Status:     domain.TaskStatusTodo,
		Priority:   priority,
		DueDate:    req.DueDate,
		AssigneeID: req.AssigneeID,
		DealID:     req.DealID,
		Tags:       req.Tags,
	}
	task.AssigneeName = s.resolveAssigneeName(ctx, req.AssigneeID)

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	dto := mapper.ToTaskDTO(task)
	return &dto, nil
}

func (s *TaskService) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskDTO, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	dto := mapper.ToTaskDTO(task)
	return &dto, nil
}

// Update replaces the task fields. CompletedAt is stamped when the
// status moves to done and cleared when it moves away from done.
func (s *TaskService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateTaskRequest) (*domain.TaskDTO, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	status := req.Status
	if status == "" {
		status = task.Status
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: invalid status %s", ErrInvalidInput, status)
	}
	priority := req.Priority
	if priority == "" {
		priority = task.Priority
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("%w: invalid priority %s", ErrInvalidInput, priority)
	}

	if status == domain.TaskStatusDone && task.Status != domain.TaskStatusDone {
		now := time.Now().UTC()
		task.CompletedAt = &now
	} else if status != domain.TaskStatusDone {
		task.CompletedAt = nil
	}

	if req.AssigneeID != task.AssigneeID {
		task.AssigneeName = s.resolveAssigneeName(ctx, req.AssigneeID)
	}

	task.Title = req.Title
	task.Body = req.Body
	task.Status = status
	task.Priority = priority
	task.DueDate = req.DueDate
	task.AssigneeID = req.AssigneeID
	task.Tags = req.Tags

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	dto := mapper.ToTaskDTO(task)
	return &dto, nil
}

func (s *TaskService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.taskRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get task: %w", err)
	}
	return s.taskRepo.Delete(ctx, id)
}

func (s *TaskService) List(ctx context.Context, page, pageSize int, filters *repository.TaskFilters) (*domain.PaginatedResponse, error) {
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 200 {
		pageSize = 200
	}
	if page < 1 {
		page = 1
	}

	tasks, total, err := s.taskRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	dtos := make([]domain.TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = mapper.ToTaskDTO(&task)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *TaskService) ListByDeal(ctx context.Context, dealID uuid.UUID) ([]domain.TaskDTO, error) {
	tasks, err := s.taskRepo.ListByDeal(ctx, dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	dtos := make([]domain.TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = mapper.ToTaskDTO(&task)
	}
	return dtos, nil
}

// resolveAssigneeName denormalizes the display name so task lists do
// not need a user join. Unknown assignees keep an empty name.
func (s *TaskService) resolveAssigneeName(ctx context.Context, assigneeID string) string {
	if assigneeID == "" {
		return ""
	}
	user, err := s.userRepo.GetByID(ctx, assigneeID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("failed to resolve assignee", zap.String("assigneeId", assigneeID), zap.Error(err))
		}
		return ""
	}
	return user.DisplayName
}
