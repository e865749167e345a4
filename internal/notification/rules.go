package notification

import (
	"fmt"
	"time"

	"github.com/frahmantamala/workforce-management/internal"
	userDatamodel "github.com/frahmantamala/workforce-management/internal/core/datamodel/user"
	"github.com/frahmantamala/workforce-management/internal/initiative"
	"github.com/frahmantamala/workforce-management/internal/project"
)

// StoreSnapshot is a point-in-time read of the entity store that one rule
// evaluation pass runs over. Workloads are recomputed from it rather than
// read from any cached field.
type StoreSnapshot struct {
	Now         time.Time
	Users       []*userDatamodel.User
	Projects    []*project.Project
	Initiatives []*initiative.Initiative
}

func (s *StoreSnapshot) userByID(id int64) *userDatamodel.User {
	for _, u := range s.Users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// employeeLoad is the per-employee pool accounting derived from the snapshot.
type employeeLoad struct {
	projectWorkload    int
	overBeyondWorkload int
}

func (s *StoreSnapshot) loads() map[int64]employeeLoad {
	loads := make(map[int64]employeeLoad, len(s.Users))
	for _, p := range s.Projects {
		if !p.IsActive() {
			continue
		}
		for _, a := range p.Assignments {
			l := loads[a.EmployeeID]
			l.projectWorkload += a.InvolvementPercentage
			loads[a.EmployeeID] = l
		}
	}
	for _, i := range s.Initiatives {
		if !i.IsActive() || i.AssignedTo == nil {
			continue
		}
		l := loads[*i.AssignedTo]
		l.overBeyondWorkload += i.WorkloadPercentage
		loads[*i.AssignedTo] = l
	}
	return loads
}

// Engine evaluates the fixed rule catalog against a store snapshot and
// produces notification candidates. Pure: no store access, no side effects.
type Engine struct {
	cfg internal.NotificationsConfig
}

func NewEngine(cfg internal.NotificationsConfig) *Engine {
	return &Engine{cfg: cfg.WithDefaults()}
}

// Candidates runs every rule and returns the deduplicated candidate set.
// Administrators are filtered out as recipients: operational alerts go to
// the people doing the work, never to the system owner.
func (e *Engine) Candidates(snap *StoreSnapshot) []*Notification {
	var candidates []*Notification
	candidates = append(candidates, e.milestoneRules(snap)...)
	candidates = append(candidates, e.capacityRules(snap)...)
	candidates = append(candidates, e.projectRules(snap)...)
	candidates = append(candidates, e.initiativeRules(snap)...)

	seen := make(map[string]bool, len(candidates))
	result := make([]*Notification, 0, len(candidates))
	for _, c := range candidates {
		if seen[c.ID] {
			continue
		}
		if recipient := snap.userByID(c.RecipientID); recipient == nil || recipient.IsAdmin() {
			continue
		}
		seen[c.ID] = true
		result = append(result, c)
	}
	return result
}

func (e *Engine) milestoneRules(snap *StoreSnapshot) []*Notification {
	var out []*Notification
	for _, p := range snap.Projects {
		if p.Status == project.StatusCompleted || p.Status == project.StatusCancelled {
			continue
		}
		for _, m := range p.Milestones {
			switch {
			case m.IsOverdue(snap.Now):
				out = append(out, &Notification{
					ID:          Identity(TypeMilestoneOverdue, m.ID),
					RecipientID: p.ManagerID,
					Type:        TypeMilestoneOverdue,
					Priority:    PriorityHigh,
					Title:       "Milestone overdue",
					Message:     fmt.Sprintf("Milestone %q of project %q was due on %s and is not completed", m.Title, p.Name, m.DueDate.Format("2006-01-02")),
				})
			case m.IsUpcoming(snap.Now, e.cfg.UpcomingWindow):
				out = append(out, &Notification{
					ID:          Identity(TypeMilestoneUpcoming, m.ID),
					RecipientID: p.ManagerID,
					Type:        TypeMilestoneUpcoming,
					Priority:    PriorityMedium,
					Title:       "Milestone due soon",
					Message:     fmt.Sprintf("Milestone %q of project %q is due on %s", m.Title, p.Name, m.DueDate.Format("2006-01-02")),
				})
			}
		}
	}
	return out
}

func (e *Engine) capacityRules(snap *StoreSnapshot) []*Notification {
	var out []*Notification
	loads := snap.loads()
	for _, u := range snap.Users {
		if u.IsAdmin() || !u.IsActive {
			continue
		}
		load := loads[u.ID]
		total := load.projectWorkload + load.overBeyondWorkload

		if total > e.cfg.WorkloadWarnAt {
			out = append(out, &Notification{
				ID:          Identity(TypeWorkloadExceeded, u.ID),
				RecipientID: u.ID,
				Type:        TypeWorkloadExceeded,
				Priority:    PriorityCritical,
				Title:       "Total workload exceeded",
				Message:     fmt.Sprintf("Your combined workload is %d%%, above the %d%% limit", total, e.cfg.WorkloadWarnAt),
			})
		}

		// The two over-beyond signals are mutually exclusive: past the cap
		// the near-cap warning gives way to the exceeded alert.
		switch {
		case load.overBeyondWorkload > u.OverBeyondCap:
			out = append(out, &Notification{
				ID:          Identity(TypeOverBeyondExceeded, u.ID),
				RecipientID: u.ID,
				Type:        TypeOverBeyondExceeded,
				Priority:    PriorityHigh,
				Title:       "Over & Beyond cap exceeded",
				Message:     fmt.Sprintf("Your Over & Beyond workload is %d%%, above your %d%% cap", load.overBeyondWorkload, u.OverBeyondCap),
			})
		case load.overBeyondWorkload > e.cfg.OverBeyondWarnAt:
			out = append(out, &Notification{
				ID:          Identity(TypeOverBeyondNearCap, u.ID),
				RecipientID: u.ID,
				Type:        TypeOverBeyondNearCap,
				Priority:    PriorityMedium,
				Title:       "Over & Beyond workload near cap",
				Message:     fmt.Sprintf("Your Over & Beyond workload is %d%%, approaching your %d%% cap", load.overBeyondWorkload, u.OverBeyondCap),
			})
		}
	}
	return out
}

func (e *Engine) projectRules(snap *StoreSnapshot) []*Notification {
	var out []*Notification
	for _, p := range snap.Projects {
		if p.IsActive() && len(p.Assignments) == 0 {
			out = append(out, &Notification{
				ID:          Identity(TypeProjectUnresourced, p.ID),
				RecipientID: p.ManagerID,
				Type:        TypeProjectUnresourced,
				Priority:    PriorityHigh,
				Title:       "Project has no team",
				Message:     fmt.Sprintf("Active project %q has no assigned team members", p.Name),
			})
		}

		if ratio, ok := p.HoursRatio(); ok && ratio > e.cfg.BudgetWarnRatio &&
			p.Status != project.StatusCompleted && p.Status != project.StatusCancelled {
			priority := PriorityHigh
			title := "Project hours nearing estimate"
			if ratio > 1.0 {
				priority = PriorityCritical
				title = "Project hours exceeded estimate"
			}
			out = append(out, &Notification{
				ID:          Identity(TypeBudgetAlert, p.ID),
				RecipientID: p.ManagerID,
				Type:        TypeBudgetAlert,
				Priority:    priority,
				Title:       title,
				Message:     fmt.Sprintf("Project %q has logged %.0f%% of its estimated hours", p.Name, ratio*100),
			})
		}
	}
	return out
}

func (e *Engine) initiativeRules(snap *StoreSnapshot) []*Notification {
	var out []*Notification
	for _, i := range snap.Initiatives {
		if !i.DeadlineApproaching(snap.Now, e.cfg.UpcomingWindow) {
			continue
		}
		recipient := i.CreatedBy
		if i.AssignedTo != nil {
			recipient = *i.AssignedTo
		}
		out = append(out, &Notification{
			ID:          Identity(TypeInitiativeDeadline, i.ID),
			RecipientID: recipient,
			Type:        TypeInitiativeDeadline,
			Priority:    PriorityMedium,
			Title:       "Initiative deadline approaching",
			Message:     fmt.Sprintf("Initiative %q is due on %s", i.Title, i.DueDate.Format("2006-01-02")),
		})
	}
	return out
}
