package worker

import (
	"log"
	"time"

	"gocart/internal/pkg/push"
)

// NotifyTask 订单通知任务 (支付成功、状态变更等)
type NotifyTask struct {
	UserID  string
	OrderID string
	Title   string
	Body    string
	Retry   int // 重试次数
}

type WorkerPool struct {
	TaskQueue  chan NotifyTask
	RetryQueue chan NotifyTask // 重试队列
	WorkerNum  int
	MaxRetry   int // 最大重试次数
}

func NewWorkerPool(workerNum int, bufferSize int) *WorkerPool {
	return &WorkerPool{
		TaskQueue:  make(chan NotifyTask, bufferSize),
		RetryQueue: make(chan NotifyTask, bufferSize/2),
		WorkerNum:  workerNum,
		MaxRetry:   3, // 最多重试3次
	}
}

func (p *WorkerPool) Start() {
	for i := 0; i < p.WorkerNum; i++ {
		go p.worker(i)
	}
	// 启动重试处理协程
	go p.retryWorker()
	log.Printf("Worker pool started with %d workers", p.WorkerNum)
}

func (p *WorkerPool) worker(id int) {
	for task := range p.TaskQueue {
		if err := p.processTask(task); err != nil {
			log.Printf("[Worker %d] Failed to process task (UserID: %s, OrderID: %s): %v",
				id, task.UserID, task.OrderID, err)

			// 如果未达到最大重试次数，加入重试队列
			if task.Retry < p.MaxRetry {
				task.Retry++
				select {
				case p.RetryQueue <- task:
					log.Printf("[Worker %d] Task added to retry queue (attempt %d/%d)",
						id, task.Retry, p.MaxRetry)
				default:
					log.Printf("[Worker %d] Retry queue full, task dropped: %+v", id, task)
					p.logFailedTask(task, err)
				}
			} else {
				log.Printf("[Worker %d] Task exceeded max retries, dropped: %+v", id, task)
				p.logFailedTask(task, err)
			}
		}
	}
}

func (p *WorkerPool) retryWorker() {
	for task := range p.RetryQueue {
		// 延迟重试，避免立即重试
		time.Sleep(time.Duration(task.Retry) * time.Second)

		// 重新加入主队列
		select {
		case p.TaskQueue <- task:
			log.Printf("[RetryWorker] Task re-queued (attempt %d/%d)", task.Retry, p.MaxRetry)
		default:
			log.Printf("[RetryWorker] Main queue full, task dropped: %+v", task)
			p.logFailedTask(task, nil)
		}
	}
}

func (p *WorkerPool) processTask(task NotifyTask) error {
	// 未配置推送服务时直接跳过，不视为失败
	if push.GlobalPushService == nil {
		return nil
	}

	return push.GlobalPushService.PushToAccount(task.UserID, task.Title, task.Body, map[string]string{
		"orderId": task.OrderID,
	})
}

func (p *WorkerPool) logFailedTask(task NotifyTask, err error) {
	// 可以写入文件、数据库或消息队列做死信处理
	log.Printf("[DeadLetter] Task failed permanently: UserID=%s, OrderID=%s, Error=%v",
		task.UserID, task.OrderID, err)
}

func (p *WorkerPool) AddTask(task NotifyTask) {
	select {
	case p.TaskQueue <- task:
		// 任务入队成功
	default:
		log.Printf("Worker pool queue full, dropping task: %+v", task)
		p.logFailedTask(task, nil)
	}
}
