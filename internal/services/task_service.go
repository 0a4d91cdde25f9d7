package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kanbanhq/tracker-api/internal/authz"
	"github.com/kanbanhq/tracker-api/internal/constants"
	"github.com/kanbanhq/tracker-api/internal/models"
	"github.com/kanbanhq/tracker-api/internal/repository"
	"github.com/kanbanhq/tracker-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTitleRequired          = errors.New("title is required")
	ErrTitleEmpty             = errors.New("title cannot be empty")
	ErrInvalidTaskStatus      = errors.New("invalid task status")
	ErrAssigneeNotEligible    = errors.New("assignee must be the project owner or a member")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo   repository.TaskRepository
	authorizer *authz.ProjectAuthorizer
	aiService  *AIService
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, authorizer *authz.ProjectAuthorizer, aiService *AIService) *TaskService {
	return &TaskService{
		taskRepo:   taskRepo,
		authorizer: authorizer,
		aiService:  aiService,
	}
}

// ListTasksInput represents filters for listing a project's tasks
type ListTasksInput struct {
	ProjectID  uint64
	Status     *models.TaskStatus
	AssigneeID *uint64
	Pagination *utils.PaginationParams
}

// ListTasks returns tasks in a project matching the filters
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		Status:     input.Status,
		AssigneeID: input.AssigneeID,
		Pagination: input.Pagination,
	}

	tasks, total, err := s.taskRepo.ListByProject(input.ProjectID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task with related data
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Assignee", "Project")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	ProjectID   uint64
	AssigneeID  *uint64
	Subtasks    []models.Subtask
}

// CreateTask creates a new task with validation
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if !models.ValidTaskStatus(input.Status) {
		return nil, ErrInvalidTaskStatus
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}

	if input.AssigneeID != nil {
		if err := s.ensureAssigneeEligible(input.ProjectID, *input.AssigneeID); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		ProjectID:   input.ProjectID,
		AssigneeID:  input.AssigneeID,
		Subtasks:    input.Subtasks,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Assignee")
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	AssigneeID    *uint64
	ClearAssignee bool
	Subtasks      []models.Subtask
}

// UpdateTask updates an existing task, including Kanban status moves
func (s *TaskService) UpdateTask(taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !models.ValidTaskStatus(*input.Status) {
			return nil, ErrInvalidTaskStatus
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}
	if input.ClearAssignee {
		task.AssigneeID = nil
	} else if input.AssigneeID != nil {
		if err := s.ensureAssigneeEligible(task.ProjectID, *input.AssigneeID); err != nil {
			return nil, err
		}
		task.AssigneeID = input.AssigneeID
	}
	if input.Subtasks != nil {
		task.Subtasks = input.Subtasks
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Assignee")
}

// AddComment appends a comment to the task's embedded comment list
func (s *TaskService) AddComment(taskID uint64, comment models.Comment) (*models.Task, error) {
	if strings.TrimSpace(comment.Body) == "" {
		return nil, fmt.Errorf("comment body is required")
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	task.Comments = append(task.Comments, comment)

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	return task, nil
}

// DeleteTask deletes a task
func (s *TaskService) DeleteTask(taskID uint64) error {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// GenerateTasksInput represents input for AI task generation
type GenerateTasksInput struct {
	ProjectID uint64
	Text      string
}

// GenerateTasks uses AI to extract task proposals from free text. Nothing is
// persisted; the client reviews the proposals and creates tasks explicitly.
func (s *TaskService) GenerateTasks(ctx context.Context, input GenerateTasksInput) ([]GeneratedTask, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	aiTasks, err := s.aiService.GenerateTasksFromText(ctx, input.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxGeneratedTasks {
		aiTasks = aiTasks[:constants.MaxGeneratedTasks]
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	for _, aiTask := range aiTasks {
		if strings.TrimSpace(aiTask.Title) == "" {
			continue
		}
		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}

	return validTasks, nil
}

// ensureAssigneeEligible verifies the assignee has access to the project
func (s *TaskService) ensureAssigneeEligible(projectID, userID uint64) error {
	level, _, err := s.authorizer.ProjectAccess(userID, projectID)
	if err != nil {
		return fmt.Errorf("failed to verify assignee: %w", err)
	}
	if level == authz.AccessDenied {
		return ErrAssigneeNotEligible
	}
	return nil
}
